package runtime

import (
	"context"
	"fmt"
	"sync"
)

// fakeInterpreter prints its source through the console it was loaded with.
type fakeInterpreter struct {
	console *Console

	mu   sync.Mutex
	runs []string
}

func (f *fakeInterpreter) Language() string { return "fake" }

func (f *fakeInterpreter) Run(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return Interrupted(err)
	}
	f.mu.Lock()
	f.runs = append(f.runs, source)
	f.mu.Unlock()
	_, err := fmt.Fprintln(f.console.Stdout(), source)
	return err
}

// gatedLoad returns a LoadFunc that blocks until release is closed and
// counts its invocations.
func gatedLoad(release <-chan struct{}, loadErr error, calls *int, mu *sync.Mutex) LoadFunc {
	return func(_ context.Context, console *Console) (Interpreter, error) {
		mu.Lock()
		*calls++
		mu.Unlock()
		<-release
		if loadErr != nil {
			return nil, loadErr
		}
		return &fakeInterpreter{console: console}, nil
	}
}
