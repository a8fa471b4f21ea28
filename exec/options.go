package exec

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jonwraymond/codeplay/classify"
	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/history"
	"github.com/jonwraymond/codeplay/runtime"
)

// Errors returned by Options validation.
var (
	ErrLanguageRequired = errors.New("exec: Language is required")
	ErrLoadRequired     = errors.New("exec: Load is required")
	ErrUnknownLanguage  = errors.New("exec: unknown language")
)

// Recorder stores execution results. history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) (string, error)
}

// Options configures a Client.
type Options struct {
	// Language is the language name reported by the client.
	// Required.
	Language string

	// Load creates the interpreter.
	// Required.
	Load runtime.LoadFunc

	// Classifier maps failures to results.
	// Default: classify.New()
	Classifier code.Classifier

	// Timeout bounds one execution. Zero uses code.DefaultTimeout; negative
	// disables the watchdog.
	Timeout time.Duration

	// LoadTimeout bounds interpreter start-up. Zero means no bound.
	LoadTimeout time.Duration

	// Logger receives lifecycle and execution events.
	// Default: discard
	Logger code.Logger

	// Recorder, if set, receives every result.
	Recorder Recorder

	// Stdout and Stderr receive program output printed outside an
	// execution, such as during load. Default: discard
	Stdout io.Writer
	Stderr io.Writer

	// Clock stamps requests and times executions. Default: time.Now
	Clock func() time.Time
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Language == "" {
		return ErrLanguageRequired
	}
	if o.Load == nil {
		return ErrLoadRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Classifier == nil {
		o.Classifier = classify.New()
	}
	if o.Logger == nil {
		o.Logger = code.NopLogger()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}
