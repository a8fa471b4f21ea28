// Package exec is the single entry point applications use to run submitted
// programs.
//
// A [Client] owns one interpreter for one language. It loads the runtime on
// first use (or on [Client.Warmup]), forwards each program to the execution
// coordinator and hands back a [code.ExecuteResult]. Engine conditions such
// as a failed load or a busy engine come back as result variants; Execute
// never returns a Go error.
//
// # Basic Usage
//
//	client, err := exec.New(exec.Options{
//	    Language: "python",
//	    Load:     python.Load(python.Options{}),
//	})
//	if err != nil {
//	    return err
//	}
//	result := client.Execute(ctx, `print("Hello, World!")`)
//	fmt.Print(result.Output)
//
// # Configuration
//
// [NewFromConfig] wires a client from a config.Language entry, choosing the
// interpreter backend by language name.
//
// # History
//
// When Options.Recorder is set, every result is recorded. Recording is
// best-effort: failures are logged and never change the result.
package exec
