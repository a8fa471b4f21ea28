package code

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/codeplay/capture"
	"github.com/jonwraymond/codeplay/runtime"
)

// Coordinator serializes executions against one interpreter.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one program runs at a time
//   and overlapping requests are rejected with EngineBusy, never queued.
// - Context: ctx ending interrupts the running program (Timeout or Cancelled).
// - Errors: Execute never panics and never returns a Go error; every outcome
//   is an ExecuteResult.
// - Ownership: the returned ExecuteResult is caller-owned.
type Coordinator struct {
	cfg         Config
	interceptor *capture.Interceptor

	busy atomic.Bool

	executions       atomic.Int64
	failures         atomic.Int64
	rejectedBusy     atomic.Int64
	rejectedNotReady atomic.Int64
}

// NewCoordinator creates a Coordinator with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &Coordinator{
		cfg:         cfg,
		interceptor: capture.New(cfg.Loader.Console()),
	}, nil
}

// Execute runs source and returns its result.
func (c *Coordinator) Execute(ctx context.Context, source string) ExecuteResult {
	if IsBlank(source) {
		return ExecuteResult{}
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.rejectedBusy.Add(1)
		c.cfg.Logger.Debug("execution rejected", "language", c.cfg.Loader.Language(), "reason", "busy")
		return EngineResult(c.cfg.Classifier, CategoryEngineBusy,
			fmt.Errorf("%w: another execution is in progress", ErrEngineBusy))
	}
	defer c.busy.Store(false)

	handle, ok := c.cfg.Loader.Handle()
	if !ok {
		c.rejectedNotReady.Add(1)
		state := c.cfg.Loader.State()
		err := fmt.Errorf("%w: runtime is %s", ErrEngineNotReady, state)
		if loadErr := c.cfg.Loader.Err(); loadErr != nil {
			err = fmt.Errorf("%w: runtime is %s: %v", ErrEngineNotReady, state, loadErr)
		}
		c.cfg.Logger.Debug("execution rejected", "language", c.cfg.Loader.Language(), "reason", "not ready", "state", state.String())
		return EngineResult(c.cfg.Classifier, CategoryEngineNotReady, err)
	}

	runCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := c.cfg.Clock()
	output, err := c.run(runCtx, handle, source)
	millis := elapsedMillis(start, c.cfg.Clock())
	c.executions.Add(1)

	if err == nil {
		c.cfg.Logger.Debug("execution finished", "language", handle.Language(), "duration_ms", millis)
		return ExecuteResult{Output: output, ExecutionTimeMillis: millis}
	}

	c.failures.Add(1)
	result := c.cfg.Classifier.Classify(err, output)
	if result.Error == nil {
		result.Error = &ErrorInfo{Category: CategoryUnknown, Message: err.Error()}
	}
	result.Output = output
	result.ExecutionTimeMillis = millis
	c.cfg.Logger.Debug("execution failed",
		"language", handle.Language(),
		"category", string(result.Error.Category),
		"duration_ms", millis)
	return result
}

// run executes source with output captured. The capture is released and any
// panic from the interpreter is recovered on every exit path.
func (c *Coordinator) run(ctx context.Context, handle *runtime.Handle, source string) (output string, err error) {
	guard := c.interceptor.Acquire()
	defer func() {
		if r := recover(); r != nil {
			c.cfg.Logger.Error("interpreter panic", "language", handle.Language(), "panic", fmt.Sprint(r))
			err = fmt.Errorf("%w: interpreter panic: %v", ErrCodeExecution, r)
		}
		output = guard.Release()
	}()
	err = handle.Run(ctx, source)
	return output, err
}

// elapsedMillis rounds end-start to the nearest millisecond, clamped at zero.
func elapsedMillis(start, end time.Time) int64 {
	ms := end.Sub(start).Round(time.Millisecond).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Busy reports whether an execution is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Interceptor returns the output interceptor driven by the coordinator.
func (c *Coordinator) Interceptor() *capture.Interceptor {
	return c.interceptor
}

// Stats returns a snapshot of the coordinator counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Executions:       c.executions.Load(),
		Failures:         c.failures.Load(),
		RejectedBusy:     c.rejectedBusy.Load(),
		RejectedNotReady: c.rejectedNotReady.Load(),
	}
}
