package walk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cbrw/counter"
)

func uniformTwoByTwo(t *testing.T, repeats int) *counter.Counter {
	t.Helper()
	c := counter.New()
	for i := 0; i < repeats; i++ {
		c.Update(map[string]string{"f": "a", "g": "x"})
		c.Update(map[string]string{"f": "a", "g": "y"})
		c.Update(map[string]string{"f": "b", "g": "x"})
		c.Update(map[string]string{"f": "b", "g": "y"})
	}
	return c
}

func TestBiases_RareValuesWeighMore(t *testing.T) {
	c := counter.New()
	// "low" dominates income; "high" is rare.
	for i := 0; i < 9; i++ {
		c.Update(map[string]string{"income": "low", "gender": "male"})
	}
	c.Update(map[string]string{"income": "high", "gender": "female"})

	biases := Biases(c, 1)
	lowIdx, _ := c.IndexOf(counter.Item{Field: "income", Value: "low"})
	highIdx, _ := c.IndexOf(counter.Item{Field: "income", Value: "high"})
	require.Greater(t, biases[highIdx], biases[lowIdx])
	for _, b := range biases {
		require.GreaterOrEqual(t, b, 0.0)
		require.LessOrEqual(t, b, 1.0)
	}
}

func TestBiases_ExponentSharpens(t *testing.T) {
	c := uniformTwoByTwo(t, 3)
	flat := Biases(c, 1)
	sharp := Biases(c, 2)
	for i := range flat {
		require.InDelta(t, flat[i]*flat[i], sharp[i], 1e-12)
	}
}

func TestTransitions_RowsAreStochastic(t *testing.T) {
	c := counter.New()
	records := []map[string]string{
		{"gender": "male", "education": "bachelor", "income": "medium"},
		{"gender": "male", "education": "bachelor", "income": "medium"},
		{"gender": "female", "education": "master", "income": "high"},
		{"gender": "female", "education": "phd", "income": "high"},
		{"gender": "male", "education": "master", "income": "low"},
	}
	for _, r := range records {
		c.Update(r)
	}

	m := Transitions(c, 1)
	require.Equal(t, c.Len(), m.Dim())
	for i := 0; i < m.Dim(); i++ {
		if m.OutDegree(i) == 0 {
			continue
		}
		var sum float64
		for j := 0; j < m.Dim(); j++ {
			p := m.Prob(i, j)
			require.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}
}

func TestTransitions_NoEdgeForUnpairedValues(t *testing.T) {
	c := counter.New()
	c.Update(map[string]string{"f": "solo"})
	c.Update(map[string]string{"g": "x", "h": "y"})

	m := Transitions(c, 1)
	soloIdx, _ := c.IndexOf(counter.Item{Field: "f", Value: "solo"})
	require.Equal(t, 0, m.OutDegree(soloIdx))
}

func TestTransitions_ConstantFieldGetsNoIncomingMass(t *testing.T) {
	// A field with a single constant value has bias 0; transitions into it
	// vanish and rows pointing only at it are emptied.
	c := counter.New()
	c.Update(map[string]string{"const": "only", "other": "a"})
	c.Update(map[string]string{"const": "only", "other": "b"})

	m := Transitions(c, 1)
	constIdx, _ := c.IndexOf(counter.Item{Field: "const", Value: "only"})
	aIdx, _ := c.IndexOf(counter.Item{Field: "other", Value: "a"})
	require.Equal(t, 0.0, m.Prob(aIdx, constIdx))
	require.Equal(t, 0, m.OutDegree(aIdx))
	// "only" still walks out toward the informative field.
	require.Equal(t, 2, m.OutDegree(constIdx))
}

func TestStationary_UniformDataYieldsUniformWeights(t *testing.T) {
	c := uniformTwoByTwo(t, 10)
	m := Transitions(c, 1)

	pi, info, err := Stationary(context.Background(), m, Config{Alpha: 0.95, Tol: 1e-6, MaxIter: 200})
	require.NoError(t, err)
	require.True(t, info.Converged)
	require.Len(t, pi, 4)

	var sum float64
	for _, w := range pi {
		require.InDelta(t, 0.25, w, 1e-6)
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestStationary_SumsToOne(t *testing.T) {
	c := counter.New()
	records := []map[string]string{
		{"gender": "male", "education": "bachelor", "income": "medium"},
		{"gender": "male", "education": "bachelor", "income": "medium"},
		{"gender": "female", "education": "master", "income": "high"},
		{"gender": "female", "education": "phd", "income": "high"},
		{"gender": "male", "education": "master", "income": "low"},
		{"gender": "female", "education": "bachelor", "income": "low"},
	}
	for _, r := range records {
		c.Update(r)
	}

	pi, info, err := Stationary(context.Background(), Transitions(c, 1), Config{Alpha: 0.95, Tol: 1e-6, MaxIter: 200})
	require.NoError(t, err)
	require.True(t, info.Converged)

	var sum float64
	for _, w := range pi {
		require.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestStationary_DisconnectedComponents(t *testing.T) {
	c := counter.New()
	// Two populations that never share a value.
	for i := 0; i < 5; i++ {
		c.Update(map[string]string{"f": "a", "g": "x"})
		c.Update(map[string]string{"f": "b", "g": "x"})
		c.Update(map[string]string{"f": "a", "g": "y"})
		c.Update(map[string]string{"h": "p", "k": "q"})
		c.Update(map[string]string{"h": "r", "k": "q"})
		c.Update(map[string]string{"h": "p", "k": "s"})
	}

	m := Transitions(c, 1)
	require.Equal(t, 2, ComponentCount(m))

	pi, _, err := Stationary(context.Background(), m, Config{Alpha: 0.95, Tol: 1e-6, MaxIter: 200})
	require.NoError(t, err)
	var sum float64
	for _, w := range pi {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestStationary_IterationCapIsSoft(t *testing.T) {
	c := uniformTwoByTwo(t, 2)
	m := Transitions(c, 1)

	pi, info, err := Stationary(context.Background(), m, Config{Alpha: 0.95, Tol: 1e-12, MaxIter: 1})
	require.NoError(t, err)
	require.False(t, info.Converged)
	require.Equal(t, 1, info.Iterations)
	require.Len(t, pi, 4)
	var sum float64
	for _, w := range pi {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestStationary_EmptyMatrix(t *testing.T) {
	pi, info, err := Stationary(context.Background(), Transitions(counter.New(), 1), Config{Alpha: 0.95, Tol: 1e-4, MaxIter: 100})
	require.NoError(t, err)
	require.Empty(t, pi)
	require.True(t, info.Converged)
}

func TestStationary_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := uniformTwoByTwo(t, 2)
	_, _, err := Stationary(ctx, Transitions(c, 1), Config{Alpha: 0.95, Tol: 1e-6, MaxIter: 100})
	require.ErrorIs(t, err, context.Canceled)
}

func TestComponentCount_Singletons(t *testing.T) {
	c := counter.New()
	c.Update(map[string]string{"f": "solo"})
	c.Update(map[string]string{"g": "x", "h": "y"})
	c.Update(map[string]string{"g": "z", "h": "y"})
	// solo is a singleton; x, y, z connect through the shared h value even
	// though edges into the constant h field carry zero bias.
	require.Equal(t, 2, ComponentCount(Transitions(c, 1)))
}
