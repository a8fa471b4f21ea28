package code

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/codeplay/runtime"
)

// DefaultTimeout is the watchdog timeout applied when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds the configuration for a Coordinator.
type Config struct {
	// Loader owns the interpreter the coordinator runs programs on.
	// Required.
	Loader *runtime.Loader

	// Classifier turns raw failures into results.
	// Required.
	Classifier Classifier

	// Timeout bounds one execution. Zero uses DefaultTimeout; a negative
	// value disables the watchdog.
	Timeout time.Duration

	// Logger is an optional logger for observability.
	Logger Logger

	// Clock is the time source used for timing. Defaults to time.Now.
	Clock func() time.Time
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Loader == nil {
		missing = append(missing, "Loader")
	}
	if c.Classifier == nil {
		missing = append(missing, "Classifier")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}
