package exec

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/history"
	"github.com/jonwraymond/codeplay/runtime"
)

// Client runs programs for one language.
//
// Contract:
// - Concurrency: safe for concurrent use; overlapping executions are
//   rejected with EngineBusy.
// - Context: ctx bounds both waiting for the runtime and running the program.
// - Errors: Execute never returns a Go error and never panics.
type Client struct {
	opts       Options
	loader     *runtime.Loader
	coord      *code.Coordinator
	classifier code.Classifier
}

// New creates a Client. Nothing is loaded until the first Execute or Warmup.
func New(opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	loaderOpts := []runtime.LoaderOption{
		runtime.WithLogger(opts.Logger),
		runtime.WithConsoleSinks(opts.Stdout, opts.Stderr),
		runtime.WithLoadTimeout(opts.LoadTimeout),
		runtime.WithClock(opts.Clock),
	}
	loader := runtime.NewLoader(opts.Language, opts.Load, loaderOpts...)

	coord, err := code.NewCoordinator(code.Config{
		Loader:     loader,
		Classifier: opts.Classifier,
		Timeout:    opts.Timeout,
		Logger:     opts.Logger,
		Clock:      opts.Clock,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		opts:       opts,
		loader:     loader,
		coord:      coord,
		classifier: opts.Classifier,
	}, nil
}

// Execute runs source and returns its result.
func (c *Client) Execute(ctx context.Context, source string) code.ExecuteResult {
	req := code.NewRequest(source, c.opts.Clock())
	result := c.execute(ctx, req)
	c.record(ctx, req, result)
	return result
}

func (c *Client) execute(ctx context.Context, req code.ExecuteRequest) code.ExecuteResult {
	if req.Blank() {
		return code.ExecuteResult{}
	}

	if _, err := c.loader.EnsureReady(ctx); err != nil {
		if errors.Is(err, runtime.ErrRuntimeUnavailable) {
			return code.EngineResult(c.classifier, code.CategoryRuntimeUnavailable, err)
		}
		// %v keeps a waiter's context error from reading as a timeout.
		return code.EngineResult(c.classifier, code.CategoryEngineNotReady,
			fmt.Errorf("%w: runtime is %s: %v", code.ErrEngineNotReady, c.loader.State(), err))
	}
	return c.coord.Execute(ctx, req.Source)
}

func (c *Client) record(ctx context.Context, req code.ExecuteRequest, result code.ExecuteResult) {
	if c.opts.Recorder == nil {
		return
	}
	rec := history.FromResult(c.opts.Language, req, result)
	if _, err := c.opts.Recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		c.opts.Logger.Warn("failed to record execution", "language", c.opts.Language, "error", err)
	}
}

// Warmup loads the runtime without running anything.
func (c *Client) Warmup(ctx context.Context) error {
	_, err := c.loader.EnsureReady(ctx)
	return err
}

// Retry reloads the runtime after a failed load. In any other state it
// behaves like Warmup.
func (c *Client) Retry(ctx context.Context) error {
	_, err := c.loader.Retry(ctx)
	return err
}

// Language returns the client's language.
func (c *Client) Language() string {
	return c.opts.Language
}

// State returns the runtime lifecycle state.
func (c *Client) State() runtime.State {
	return c.loader.State()
}

// Err returns the load error, if the runtime failed to load.
func (c *Client) Err() error {
	return c.loader.Err()
}

// Busy reports whether an execution is in flight.
func (c *Client) Busy() bool {
	return c.coord.Busy()
}

// Stats returns the coordinator counters.
func (c *Client) Stats() code.Stats {
	return c.coord.Stats()
}

// Classifier returns the classifier in use.
func (c *Client) Classifier() code.Classifier {
	return c.classifier
}
