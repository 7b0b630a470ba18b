package cbrw

import (
	"fmt"

	"github.com/hupe1980/cbrw/codec"
	"github.com/hupe1980/cbrw/counter"
	"github.com/hupe1980/cbrw/walk"
)

// SnapshotState is a serializable export of a Detector: the accumulated
// counts, the tuning configuration and, if present, the fitted weight
// tables. It is the contract between the core and persistence
// collaborators such as the modelstore package.
type SnapshotState struct {
	Counter counter.State  `json:"counter"`
	Config  SnapshotConfig `json:"config"`
	Fitted  *FittedState   `json:"fitted,omitempty"`
}

// SnapshotConfig carries the tuning knobs the detector was built with.
type SnapshotConfig struct {
	DampingFactor float64 `json:"damping_factor"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
	BiasExponent  float64 `json:"bias_exponent"`
}

// FittedState holds the fitted weight tables. Weights follow the counter's
// stable item index order; Values repeats the weights joined with their
// field-values for consumers that read the snapshot outside this package.
type FittedState struct {
	Weights []float64     `json:"weights"`
	Values  []ValueWeight `json:"values"`
	Info    FitInfo       `json:"info"`
}

// SnapshotCodec returns the codec configured via WithCodec. Persistence
// collaborators use it as the default encoding for exported snapshots.
func (d *Detector) SnapshotCodec() codec.Codec {
	return d.opts.codec
}

// Logger returns the configured logger, for persistence collaborators that
// report against the detector's instrumentation.
func (d *Detector) Logger() *Logger {
	return d.opts.logger
}

// Metrics returns the configured metrics collector.
func (d *Detector) Metrics() MetricsCollector {
	return d.opts.metrics
}

// Snapshot exports the detector's full state. The export is deep-copied;
// later mutation of the detector does not affect it.
func (d *Detector) Snapshot() SnapshotState {
	d.mu.Lock()
	st := SnapshotState{
		Counter: d.counter.State(),
		Config: SnapshotConfig{
			DampingFactor: d.opts.dampingFactor,
			Tolerance:     d.opts.tolerance,
			MaxIterations: d.opts.maxIterations,
			BiasExponent:  d.opts.biasExponent,
		},
	}
	d.mu.Unlock()

	if m := d.model.Load(); !m.Empty() {
		st.Fitted = &FittedState{
			Weights: append([]float64(nil), m.weights...),
			Values:  m.StationaryWeights(),
			Info:    m.info,
		}
	}
	return st
}

// FromSnapshot reconstructs a Detector from an exported state without
// re-running the solver: stored stationary weights are reused and only the
// (deterministic) transition matrix is rebuilt from the counts. Options
// override the snapshot's configuration; ambient options such as loggers
// must be re-supplied either way, since they are not serialized.
func FromSnapshot(st SnapshotState, opts ...Option) (*Detector, error) {
	o := defaultOptions()
	o.dampingFactor = st.Config.DampingFactor
	o.tolerance = st.Config.Tolerance
	o.maxIterations = st.Config.MaxIterations
	o.biasExponent = st.Config.BiasExponent
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c, err := counter.FromState(st.Counter)
	if err != nil {
		return nil, fmt.Errorf("cbrw: restore counter: %w", err)
	}

	d := &Detector{opts: o, counter: c}
	if st.Fitted == nil {
		d.model.Store(emptyModel())
		return d, nil
	}

	if len(st.Fitted.Weights) != c.Len() {
		return nil, fmt.Errorf("cbrw: snapshot holds %d weights for %d values", len(st.Fitted.Weights), c.Len())
	}
	weights := append([]float64(nil), st.Fitted.Weights...)
	trans := walk.Transitions(c, o.biasExponent)
	d.model.Store(newModel(c, trans, weights, st.Fitted.Info))
	return d, nil
}
