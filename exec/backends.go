package exec

import (
	"fmt"

	"github.com/jonwraymond/codeplay/config"
	"github.com/jonwraymond/codeplay/runtime"
	"github.com/jonwraymond/codeplay/runtime/backend/javascript"
	"github.com/jonwraymond/codeplay/runtime/backend/python"
)

// Backend returns the interpreter loader for a language name.
func Backend(language string, cfg config.Language) (runtime.LoadFunc, error) {
	switch language {
	case python.Language:
		return python.Load(python.Options{MaxSteps: cfg.MaxSteps}), nil
	case javascript.Language:
		return javascript.Load(javascript.Options{
			MaxCallStackSize: cfg.MaxCallStack,
			Persistent:       cfg.Persistent,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
}

// NewFromConfig creates a client for language from its configuration entry.
// base supplies the shared options (classifier, logger, recorder); its
// Language, Load, Timeout and LoadTimeout are overwritten.
func NewFromConfig(language string, cfg config.Language, base Options) (*Client, error) {
	load, err := Backend(language, cfg)
	if err != nil {
		return nil, err
	}
	base.Language = language
	base.Load = load
	base.Timeout = cfg.Timeout
	base.LoadTimeout = cfg.LoadTimeout
	return New(base)
}
