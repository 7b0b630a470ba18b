package cbrw

import (
	"github.com/hupe1980/cbrw/counter"
	"github.com/hupe1980/cbrw/walk"
)

// FitInfo describes the outcome of the most recent fit.
type FitInfo struct {
	// Observations is the number of records the model was fitted on.
	Observations int `json:"observations"`
	// Values is the number of distinct field-values in the model.
	Values int `json:"values"`
	// Iterations is the number of solver passes performed.
	Iterations int `json:"iterations"`
	// Converged reports whether the tolerance was reached within the
	// iteration cap. A non-converged model is still usable (best effort).
	Converged bool `json:"converged"`
	// Residual is the final L1 change between solver passes.
	Residual float64 `json:"residual"`
	// Components is the number of connected components in the
	// co-occurrence graph.
	Components int `json:"components"`
}

// ValueWeight pairs one field-value with its stationary weight, in a shape
// suitable for external serialization or reporting.
type ValueWeight struct {
	Field  string  `json:"field"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// Model is an immutable fitted snapshot: stationary weights, per-field
// relevances and the biased transition matrix of the fit that produced it.
// Models are fully replaced on every Fit; readers holding an old model keep
// a consistent view. Safe for concurrent use.
type Model struct {
	items     []counter.Item
	index     map[counter.Item]int
	weights   []float64
	relevance map[string]float64
	trans     *walk.Matrix
	info      FitInfo

	// defaultScore is the maximal per-value contribution observed at fit
	// time; values unseen during fitting score with it (open-world policy).
	defaultScore float64
}

func emptyModel() *Model {
	return &Model{
		index:        map[counter.Item]int{},
		relevance:    map[string]float64{},
		trans:        &walk.Matrix{},
		info:         FitInfo{Converged: true},
		defaultScore: 1,
	}
}

func newModel(c *counter.Counter, trans *walk.Matrix, weights []float64, info FitInfo) *Model {
	items := c.Items()
	m := &Model{
		items:     items,
		index:     make(map[counter.Item]int, len(items)),
		weights:   weights,
		relevance: make(map[string]float64),
		trans:     trans,
		info:      info,
	}
	for i, it := range items {
		m.index[it] = i
		m.relevance[it.Field] += weights[i]
	}
	var total float64
	for _, rel := range m.relevance {
		total += rel
	}
	if total > 0 {
		for f := range m.relevance {
			m.relevance[f] /= total
		}
	}
	for i, it := range items {
		if s := m.relevance[it.Field] * weights[i]; s > m.defaultScore {
			m.defaultScore = s
		}
	}
	if m.defaultScore <= 0 {
		m.defaultScore = 1
	}
	return m
}

// Empty reports whether the model holds no fitted values, either because
// Fit was never called or because no observations had been added.
func (m *Model) Empty() bool { return len(m.items) == 0 }

// Info returns the fit diagnostics.
func (m *Model) Info() FitInfo { return m.info }

// StationaryWeight returns the converged weight of a field-value.
// The second return is false for values unseen during fitting.
func (m *Model) StationaryWeight(field, value string) (float64, bool) {
	i, ok := m.index[counter.Item{Field: field, Value: value}]
	if !ok {
		return 0, false
	}
	return m.weights[i], true
}

// FeatureRelevance returns the normalized relevance of a field: the share
// of total stationary mass carried by its values. The second return is
// false for fields unseen during fitting.
func (m *Model) FeatureRelevance(field string) (float64, bool) {
	rel, ok := m.relevance[field]
	return rel, ok
}

// TransitionProbability returns the biased transition probability from the
// source field-value to the target field-value. The second return is false
// if either endpoint was unseen during fitting; a seen pair with no edge
// returns (0, true).
func (m *Model) TransitionProbability(srcField, srcValue, dstField, dstValue string) (float64, bool) {
	i, ok := m.index[counter.Item{Field: srcField, Value: srcValue}]
	if !ok {
		return 0, false
	}
	j, ok := m.index[counter.Item{Field: dstField, Value: dstValue}]
	if !ok {
		return 0, false
	}
	return m.trans.Prob(i, j), true
}

// StationaryWeights exports all fitted weights in stable index order.
func (m *Model) StationaryWeights() []ValueWeight {
	out := make([]ValueWeight, len(m.items))
	for i, it := range m.items {
		out[i] = ValueWeight{Field: it.Field, Value: it.Value, Weight: m.weights[i]}
	}
	return out
}

// DefaultScore returns the maximal-anomaly contribution assigned to values
// unseen during fitting.
func (m *Model) DefaultScore() float64 { return m.defaultScore }

func (m *Model) itemScore(it counter.Item) float64 {
	i, ok := m.index[it]
	if !ok {
		return m.defaultScore
	}
	return m.relevance[it.Field] * m.weights[i]
}

func (m *Model) score(rec Record) float64 {
	var s float64
	for field, value := range rec {
		if value == "" {
			continue
		}
		s += m.itemScore(counter.Item{Field: field, Value: value})
	}
	return s
}

func (m *Model) valueScores(rec Record) map[string]float64 {
	out := make(map[string]float64, len(rec))
	for field, value := range rec {
		if value == "" {
			continue
		}
		out[field] = m.itemScore(counter.Item{Field: field, Value: value})
	}
	return out
}
