package cbrw

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// ScoreSummary aggregates a batch of anomaly scores for reporting.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes summary statistics over a batch of results.
// An empty batch is an error.
func Summarize(results []Result) (ScoreSummary, error) {
	scores := make(stats.Float64Data, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}

	s := ScoreSummary{Count: len(results)}
	var err error
	if s.Min, err = stats.Min(scores); err != nil {
		return ScoreSummary{}, err
	}
	if s.Max, err = stats.Max(scores); err != nil {
		return ScoreSummary{}, err
	}
	if s.Mean, err = stats.Mean(scores); err != nil {
		return ScoreSummary{}, err
	}
	if s.Median, err = stats.Median(scores); err != nil {
		return ScoreSummary{}, err
	}
	if s.P95, err = stats.Percentile(scores, 95); err != nil {
		return ScoreSummary{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(scores); err != nil {
		return ScoreSummary{}, err
	}
	return s, nil
}

// Rank returns a copy of results sorted by descending score, most anomalous
// first. Ties keep their input order.
func Rank(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
