// Package worker runs the per-session controller that owns comparison state.
package worker

import (
	"time"

	"github.com/okian/versus/internal/domain/compare"
	"github.com/okian/versus/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithDebounce sets the quiet period before a search is committed.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithInboxSize sets how many events may wait for the controller.
func WithInboxSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.inboxSize = n
		}
	}
}

// WithInitialState starts the controller from st instead of the defaults.
func WithInitialState(st compare.State) Option {
	return func(c *Controller) {
		c.state = st
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(logger logger.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
