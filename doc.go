// Package cbrw provides an embedded anomaly detector for purely categorical
// tabular data, based on coupled biased random walks.
//
// Records are plain field-name -> category-value maps. The detector builds
// co-occurrence statistics over the observed field-values, derives biased
// transition probabilities that discount frequent ("unsurprising") values,
// computes a stationary weight per value by damped power iteration, and
// scores each record by combining the weights of its values. Higher scores
// mean more anomalous records.
//
// # Quick Start
//
//	ctx := context.Background()
//	det, _ := cbrw.New()
//	det.AddObservations(ctx,
//	    cbrw.Record{"gender": "female", "education": "master", "income": "high"},
//	    cbrw.Record{"gender": "male", "education": "bachelor", "income": "medium"},
//	    // ...
//	)
//	if err := det.Fit(ctx); err != nil {
//	    panic(err)
//	}
//	results, _ := det.Score(ctx, records)
//	for _, r := range cbrw.Rank(results) {
//	    fmt.Println(r.Score, r.Record)
//	}
//
// # Tuning
//
// The walk is controlled by a small set of options with safe defaults:
//
//	det, err := cbrw.New(
//	    cbrw.WithDampingFactor(0.95),  // damping of the power iteration
//	    cbrw.WithTolerance(1e-4),      // L1 convergence tolerance
//	    cbrw.WithMaxIterations(100),   // soft iteration cap
//	    cbrw.WithBiasExponent(1.0),    // strength of the rarity bias
//	)
//
// # Degradation Model
//
// The detector prefers graceful degradation over hard failure: records with
// missing values are folded in partially, values never seen during fitting
// score with a maximal-anomaly default, fitting an empty detector yields an
// empty model, and a solve that hits the iteration cap still returns its
// best-effort weights (flagged in the model's FitInfo). The only eager
// errors are invalid option values at construction.
//
// # Persistence
//
// A fitted detector can be exported via Snapshot and stored through the
// modelstore package (local filesystem, in-memory, S3 or MinIO backends,
// with optional LZ4/ZSTD compression), then restored with FromSnapshot
// without re-fitting.
package cbrw
