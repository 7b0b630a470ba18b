package cbrw_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cbrw"
)

func TestSummarize(t *testing.T) {
	results := []cbrw.Result{
		{Score: 1},
		{Score: 2},
		{Score: 3},
		{Score: 4},
		{Score: 10},
	}
	s, err := cbrw.Summarize(results)
	require.NoError(t, err)
	require.Equal(t, 5, s.Count)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 10.0, s.Max)
	require.Equal(t, 4.0, s.Mean)
	require.Equal(t, 3.0, s.Median)
	require.GreaterOrEqual(t, s.P95, 4.0)
	require.Greater(t, s.StdDev, 0.0)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := cbrw.Summarize(nil)
	require.Error(t, err)
}

func TestRank(t *testing.T) {
	results := []cbrw.Result{
		{Record: cbrw.Record{"id": "a"}, Score: 0.2},
		{Record: cbrw.Record{"id": "b"}, Score: 0.9},
		{Record: cbrw.Record{"id": "c"}, Score: 0.9},
		{Record: cbrw.Record{"id": "d"}, Score: 0.1},
	}
	ranked := cbrw.Rank(results)

	require.Equal(t, "b", ranked[0].Record["id"]) // ties keep input order
	require.Equal(t, "c", ranked[1].Record["id"])
	require.Equal(t, "a", ranked[2].Record["id"])
	require.Equal(t, "d", ranked[3].Record["id"])

	// Input untouched.
	require.Equal(t, "a", results[0].Record["id"])
}
