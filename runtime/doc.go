// Package runtime owns the embedded interpreters that execute submitted code.
//
// A [Loader] acquires and initializes one [Interpreter] per language, exactly
// once per process, and hands out the resulting [Handle] to every caller.
// Loading is single-flight: concurrent callers of [Loader.EnsureReady] share
// one in-flight load and receive the same handle.
//
// # Lifecycle
//
// A Loader moves through the [State] values
//
//	uninitialized -> loading -> ready
//	                        \-> load_failed
//
// A failed load is terminal until the caller explicitly asks for
// [Loader.Retry]; the loader never retries on its own.
//
// # Output
//
// Every interpreter is loaded with the Loader's [Console]. The console is the
// long-lived capture-control object: the interpreter always prints through
// it, and the capture package redirects its sinks for the duration of one
// execution.
//
// # Backends
//
// Interpreter implementations live under runtime/backend:
//
//   - python: a Python dialect backed by go.starlark.net
//   - javascript: ECMAScript backed by github.com/dop251/goja
package runtime
