package cbrw_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cbrw"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	records, anomaly := cheatDataset()
	det := fitDetector(t, records, cbrw.WithBiasExponent(1.5))

	restored, err := cbrw.FromSnapshot(det.Snapshot())
	require.NoError(t, err)
	require.False(t, restored.Model().Empty())

	ctx := context.Background()
	want, err := det.Score(ctx, append(records, anomaly))
	require.NoError(t, err)
	got, err := restored.Score(ctx, append(records, anomaly))
	require.NoError(t, err)

	for i := range want {
		require.Equal(t, want[i].Score, got[i].Score)
	}
	require.Equal(t, det.Model().Info(), restored.Model().Info())
	require.Equal(t, det.Model().DefaultScore(), restored.Model().DefaultScore())
}

func TestSnapshot_UnfittedDetector(t *testing.T) {
	det, err := cbrw.New()
	require.NoError(t, err)
	det.AddObservations(context.Background(), cbrw.Record{"gender": "male", "income": "low"})

	st := det.Snapshot()
	require.Nil(t, st.Fitted)

	restored, err := cbrw.FromSnapshot(st)
	require.NoError(t, err)
	require.True(t, restored.Model().Empty())

	// Counts survived: fitting the restored detector produces a model.
	require.NoError(t, restored.Fit(context.Background()))
	require.False(t, restored.Model().Empty())
	require.Equal(t, 1, restored.Model().Info().Observations)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	records, _ := cheatDataset()
	det := fitDetector(t, records)

	st := det.Snapshot()
	n := st.Counter.N
	det.AddObservations(context.Background(), records[:4]...)
	require.Equal(t, n, st.Counter.N)
}

func TestFromSnapshot_OptionsOverrideConfig(t *testing.T) {
	records, _ := cheatDataset()
	det := fitDetector(t, records)

	st := det.Snapshot()
	restored, err := cbrw.FromSnapshot(st, cbrw.WithMaxIterations(3), cbrw.WithTolerance(1e-15))
	require.NoError(t, err)

	// Refit under the overridden knobs: the cap now binds.
	require.NoError(t, restored.Fit(context.Background()))
	require.Equal(t, 3, restored.Model().Info().Iterations)
	require.False(t, restored.Model().Info().Converged)
}

func TestFromSnapshot_RejectsCorruptState(t *testing.T) {
	records, _ := cheatDataset()
	det := fitDetector(t, records)

	t.Run("weight count mismatch", func(t *testing.T) {
		st := det.Snapshot()
		st.Fitted.Weights = st.Fitted.Weights[:1]
		_, err := cbrw.FromSnapshot(st)
		require.Error(t, err)
	})

	t.Run("invalid counter", func(t *testing.T) {
		st := det.Snapshot()
		st.Counter.N = -1
		_, err := cbrw.FromSnapshot(st)
		require.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		st := det.Snapshot()
		st.Config.DampingFactor = 7
		_, err := cbrw.FromSnapshot(st)
		require.Error(t, err)
	})
}
