package enrich

import (
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/enrich/metrics"
)

// config holds Enricher configuration.
type config struct {
	// StartImmediately defines whether the enricher starts draining the queue
	// as soon as it is constructed or waits for an explicit Start call.
	// Default: false
	StartImmediately bool

	// EventsBufferSize defines the size of the outward events channel buffer.
	// Default: 1024.
	EventsBufferSize uint

	// ErrorsBufferSize defines the size of the outward errors channel buffer.
	// Default: 1024.
	ErrorsBufferSize uint

	// MaxAttempts defines how many times an element may be handed to the
	// processor before it is given up on. 1 (the default) means a failed
	// element is dropped; it stays in its placeholder state until the caller
	// offers it again.
	MaxAttempts uint

	// Metrics supplies the instrumentation provider. Nil means no-op.
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		StartImmediately: false, // explicit Start by default
		EventsBufferSize: 1024,
		ErrorsBufferSize: 1024,
		MaxAttempts:      1,
		Metrics:          metrics.NewNoopProvider(),
	}
}

// validateConfig performs lightweight invariants checks.
// It returns nil for all currently valid states; reserved for future validation expansions.
func validateConfig(_ *config) error {
	// Buffer sizes are uint; zero is a valid (unbuffered) choice.
	// MaxAttempts is enforced to be > 0 by WithRetry.
	return nil
}

// Option configures an Enricher. Use New(ctx, collection, processor, opts...)
// to construct an Enricher via options. Invalid input yields an error from New.
type Option func(*config) error

// WithStartImmediately starts draining as soon as the enricher is constructed.
func WithStartImmediately() Option {
	return func(cfg *config) error { cfg.StartImmediately = true; return nil }
}

// WithEventsBuffer sets the size of the outward events channel buffer (default 1024).
func WithEventsBuffer(size uint) Option {
	return func(cfg *config) error { cfg.EventsBufferSize = size; return nil }
}

// WithErrorsBuffer sets the size of the outward errors channel buffer (default 1024).
func WithErrorsBuffer(size uint) Option {
	return func(cfg *config) error { cfg.ErrorsBufferSize = size; return nil }
}

// WithRetry allows a failing element up to maxAttempts process invocations
// before it is dropped (must be > 0). Re-queued elements rejoin the backlog at
// the current priority generation.
func WithRetry(maxAttempts uint) Option {
	return func(cfg *config) error {
		if maxAttempts == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithRetry requires maxAttempts > 0"))
		}
		cfg.MaxAttempts = maxAttempts
		return nil
	}
}

// WithMetrics sets the metrics provider used to instrument the enricher.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}
