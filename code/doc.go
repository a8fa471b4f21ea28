// Package code is the execution core: it turns one submitted program into
// exactly one timed, classified result.
//
// # Architecture
//
// The package defines the result model and the [Coordinator]:
//
//   - [ExecuteRequest] and [ExecuteResult]: the value types that cross the
//     engine boundary. A result always carries the captured output and the
//     elapsed time, and carries an [ErrorInfo] when the program failed or the
//     engine refused to run it.
//
//   - [Classifier]: maps a raw interpreter failure to one of the closed set of
//     [Category] values. The default implementation lives in package classify.
//
//   - [Coordinator]: the serialization point in front of one interpreter. It
//     admits one execution at a time, drives output capture and timing, and
//     never lets a failure escape as a panic or a Go error.
//
// # Execution Order
//
// For each call to [Coordinator.Execute]:
//
//  1. Blank source returns an empty success result without touching the runtime.
//  2. A request arriving while another is in flight gets [CategoryEngineBusy].
//  3. A runtime that is not ready gets [CategoryEngineNotReady].
//  4. Output capture is acquired, the program runs under the watchdog
//     timeout, and capture is released on every exit path.
//  5. Failures are passed to the [Classifier] together with the partial output.
//
// # Engine Conditions
//
// EngineBusy, EngineNotReady and RuntimeUnavailable are returned as result
// variants. [ErrorInfo] matches the sentinels [ErrEngineBusy],
// [ErrEngineNotReady] and [ErrRuntimeUnavailable] so callers can branch with
// errors.Is on [ExecuteResult.Err].
package code
