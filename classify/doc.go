// Package classify maps raw interpreter failures onto the closed set of
// code.Category values and renders a localized, user-facing message.
//
// Classification is an ordered list of [Rule] values matched against the
// runtime's own exception kind and message; the first match wins and no
// match yields code.CategoryUnknown with the raw error text kept verbatim.
// [DefaultRules] is exported so callers can extend or reorder the rules
// without touching the coordinator.
//
// Messages have the interpreter's own location markers (synthetic file names
// such as main.py or main.js, stack frames, Traceback blocks) removed and the
// position rephrased as "line N" in the selected locale:
//
//	Division by zero (line 2): floating-point division by zero
//
// Supported locales are English (default), Russian and Spanish.
package classify
