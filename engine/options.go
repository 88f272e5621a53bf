package engine

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/sculpt/metrics"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClientFactory replaces provider.New as the way clients are built.
func WithClientFactory(f ClientFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.factory = f
		}
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records sculpt outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTimeout bounds every sculpt. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// SculptOption configures a single Sculpt call.
type SculptOption func(*sculptOptions)

type sculptOptions struct {
	instruction string
	override    bool
}

// WithInstruction uses text instead of the instruction surface's content.
// The instruction surface is still cleared when the sculpt starts.
func WithInstruction(text string) SculptOption {
	return func(o *sculptOptions) {
		o.instruction = text
		o.override = true
	}
}
