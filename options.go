package cbrw

import (
	"log/slog"

	"github.com/hupe1980/cbrw/codec"
)

const (
	// DefaultDampingFactor is the damping factor of the power iteration.
	DefaultDampingFactor = 0.95
	// DefaultTolerance is the L1 convergence tolerance of the solver.
	DefaultTolerance = 1e-4
	// DefaultMaxIterations caps the solver's passes (soft cap).
	DefaultMaxIterations = 100
	// DefaultBiasExponent leaves the rarity bias unsharpened.
	DefaultBiasExponent = 1.0
)

type options struct {
	dampingFactor float64
	tolerance     float64
	maxIterations int
	biasExponent  float64
	codec         codec.Codec
	logger        *Logger
	metrics       MetricsCollector
}

func defaultOptions() options {
	return options{
		dampingFactor: DefaultDampingFactor,
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		biasExponent:  DefaultBiasExponent,
		codec:         codec.Default,
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
	}
}

func (o *options) validate() error {
	if o.dampingFactor <= 0 || o.dampingFactor > 1 {
		return &ErrInvalidOption{Option: "DampingFactor", Value: o.dampingFactor, Reason: "must be in (0, 1]"}
	}
	if o.tolerance <= 0 {
		return &ErrInvalidOption{Option: "Tolerance", Value: o.tolerance, Reason: "must be positive"}
	}
	if o.maxIterations < 1 {
		return &ErrInvalidOption{Option: "MaxIterations", Value: o.maxIterations, Reason: "must be at least 1"}
	}
	if o.biasExponent <= 0 {
		return &ErrInvalidOption{Option: "BiasExponent", Value: o.biasExponent, Reason: "must be positive"}
	}
	return nil
}

// Option configures a Detector at construction time.
type Option func(*options)

// WithDampingFactor sets the damping factor alpha of the stationary solver:
// each pass keeps alpha of the walked probability mass and redistributes
// 1-alpha uniformly across all values. Must be in (0, 1]. Default: 0.95.
//
// Lower values converge faster but flatten the weight distribution; 1 means
// no damping, which can fail to mix on poorly connected data.
func WithDampingFactor(alpha float64) Option {
	return func(o *options) { o.dampingFactor = alpha }
}

// WithTolerance sets the convergence tolerance: the solver stops once the
// total absolute (L1) change between successive weight vectors falls below
// it. Must be positive. Default: 1e-4.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// WithMaxIterations caps the solver's power-iteration passes. Hitting the
// cap is a soft condition: Fit still installs the best-effort weights and
// marks the model's FitInfo as not converged. Must be at least 1.
// Default: 100.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithBiasExponent sets the exponent applied to the per-value rarity bias.
// Values above 1 sharpen the discount of popular values, values below 1
// soften it. Must be positive. Default: 1.
func WithBiasExponent(gamma float64) Option {
	return func(o *options) { o.biasExponent = gamma }
}

// WithCodec configures the codec used when exporting snapshots.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging for detector operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) { o.logger = NewTextLogger(level) }
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
