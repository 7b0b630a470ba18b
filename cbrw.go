package cbrw

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cbrw/counter"
	"github.com/hupe1980/cbrw/walk"
)

// Record is a single observation: field name -> category value.
// Empty values mark missing fields and are skipped.
type Record map[string]string

// Result pairs a scored record with its anomaly score.
// Higher scores mean more anomalous records.
type Result struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// Batches of at least this many records are scored with worker fan-out.
const parallelScoreThreshold = 1024

// Detector accumulates categorical observations and scores records against
// the most recently fitted model.
//
// Mutation (AddObservations, Fit, Reset) is serialized internally; Score
// and ValueScores read an immutable model snapshot and may run concurrently
// with each other and with ongoing mutation. Scores are valid against the
// most recent Fit: observations added afterwards do not influence scoring
// until Fit runs again.
type Detector struct {
	opts options

	mu      sync.Mutex
	counter *counter.Counter

	model atomic.Pointer[Model]
}

// New creates a Detector. Option values are validated eagerly; invalid
// tuning knobs return an *ErrInvalidOption.
func New(opts ...Option) (*Detector, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	d := &Detector{opts: o, counter: counter.New()}
	d.model.Store(emptyModel())
	return d, nil
}

// AddObservations folds records into the co-occurrence statistics.
// Malformed records (no populated fields) are skipped without mutation;
// the call never fails. The fitted model is unaffected until the next Fit.
func (d *Detector) AddObservations(ctx context.Context, records ...Record) {
	start := time.Now()
	added, skipped := 0, 0

	d.mu.Lock()
	for _, rec := range records {
		before := d.counter.N()
		d.counter.Update(rec)
		if d.counter.N() > before {
			added++
		} else {
			skipped++
		}
	}
	d.mu.Unlock()

	d.opts.metrics.RecordAddObservations(added, skipped, time.Since(start))
	d.opts.logger.LogObservations(ctx, added, skipped)
}

// Fit recomputes the biased transition probabilities and stationary weights
// from all observations seen so far and atomically installs the new model.
// Readers of the previous model keep a consistent view until they observe
// the swap. Fitting with no observations installs an empty model; fitting
// twice without new observations reproduces the same weights up to
// floating-point determinism. Hitting the iteration cap is soft: the
// best-effort weights are installed and flagged in the model's FitInfo.
//
// The only error returned is context cancellation mid-solve, in which case
// the previous model stays installed.
func (d *Detector) Fit(ctx context.Context) error {
	start := time.Now()

	d.mu.Lock()
	var m *Model
	var err error
	if d.counter.N() == 0 {
		m = emptyModel()
	} else {
		trans := walk.Transitions(d.counter, d.opts.biasExponent)
		var weights []float64
		var winfo walk.Info
		weights, winfo, err = walk.Stationary(ctx, trans, walk.Config{
			Alpha:   d.opts.dampingFactor,
			Tol:     d.opts.tolerance,
			MaxIter: d.opts.maxIterations,
		})
		if err == nil {
			m = newModel(d.counter, trans, weights, FitInfo{
				Observations: d.counter.N(),
				Values:       d.counter.Len(),
				Iterations:   winfo.Iterations,
				Converged:    winfo.Converged,
				Residual:     winfo.Residual,
				Components:   winfo.Components,
			})
		}
	}
	d.mu.Unlock()

	if err != nil {
		d.opts.logger.LogFit(ctx, FitInfo{}, err)
		return err
	}

	d.model.Store(m)
	d.opts.metrics.RecordFit(m.info.Iterations, m.info.Converged, time.Since(start))
	d.opts.logger.LogFit(ctx, m.info, nil)
	return nil
}

// Model returns the current fitted snapshot. It is never nil: before the
// first Fit it is the empty model, against which every value scores with
// the maximal-anomaly default.
func (d *Detector) Model() *Model {
	return d.model.Load()
}

// Score computes the anomaly score of each record against the most recent
// fit. Values unseen during fitting contribute the maximal-anomaly default,
// so scoring never fails on novel categories and always yields finite
// scores. Large batches are fanned out across CPUs.
func (d *Detector) Score(ctx context.Context, records []Record) ([]Result, error) {
	start := time.Now()
	m := d.model.Load()

	results := make([]Result, len(records))
	var err error
	if len(records) < parallelScoreThreshold {
		for i, rec := range records {
			if err = ctx.Err(); err != nil {
				break
			}
			results[i] = Result{Record: rec, Score: m.score(rec)}
		}
	} else {
		err = scoreParallel(ctx, m, records, results)
	}

	d.opts.metrics.RecordScore(len(records), time.Since(start), err)
	d.opts.logger.LogScore(ctx, len(records), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func scoreParallel(ctx context.Context, m *Model, records []Record, results []Result) error {
	g, ctx := errgroup.WithContext(ctx)
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(records) + workers - 1) / workers
	for lo := 0; lo < len(records); lo += chunk {
		hi := min(lo+chunk, len(records))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = Result{Record: records[i], Score: m.score(records[i])}
			}
			return nil
		})
	}
	return g.Wait()
}

// ValueScores returns, for each record, the per-field score contributions
// that Score sums into the record score. Useful for explaining which values
// drove a record's anomaly.
func (d *Detector) ValueScores(ctx context.Context, records []Record) ([]map[string]float64, error) {
	m := d.model.Load()
	out := make([]map[string]float64, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = m.valueScores(rec)
	}
	return out, nil
}

// Reset discards all accumulated observations and the fitted model,
// returning the detector to its freshly constructed state. Configuration
// is retained.
func (d *Detector) Reset() {
	d.mu.Lock()
	d.counter = counter.New()
	d.mu.Unlock()
	d.model.Store(emptyModel())
}
