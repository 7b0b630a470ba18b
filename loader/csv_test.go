package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cbrw"
)

func TestReadCSV(t *testing.T) {
	data := `gender,education,marriage,income
female,master,married,high
male,bachelor,single,medium
female, phd ,married,high
`
	records, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, cbrw.Record{
		"gender": "female", "education": "master", "marriage": "married", "income": "high",
	}, records[0])
	require.Equal(t, "phd", records[2]["education"]) // cells are trimmed
}

func TestReadCSV_MissingValues(t *testing.T) {
	data := `gender,education,income
female,NA,high
male,,medium
,phd,NULL
`
	records, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, cbrw.Record{"gender": "female", "income": "high"}, records[0])
	require.Equal(t, cbrw.Record{"gender": "male", "income": "medium"}, records[1])
	require.Equal(t, cbrw.Record{"education": "phd"}, records[2])
}

func TestReadCSV_CustomMissingTokens(t *testing.T) {
	data := `gender,income
female,?
male,high
`
	records, err := ReadCSV(strings.NewReader(data), WithMissingTokens("", "?"))
	require.NoError(t, err)
	require.Equal(t, cbrw.Record{"gender": "female"}, records[0])
	require.Equal(t, cbrw.Record{"gender": "male", "income": "high"}, records[1])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	data := `gender,education,income
female,master
male,bachelor,medium,surplus
`
	records, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cbrw.Record{"gender": "female", "education": "master"}, records[0])
	require.Equal(t, cbrw.Record{"gender": "male", "education": "bachelor", "income": "medium"}, records[1])
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	require.Nil(t, records)

	records, err = ReadCSV(strings.NewReader("gender,income\n"))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte("gender,income\nfemale,high\n"), 0o644))

	records, err := ReadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, cbrw.Record{"gender": "female", "income": "high"}, records[0])

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
