package loader

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hupe1980/cbrw"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func TestReadXLSX(t *testing.T) {
	f := writeWorkbook(t, "Sheet1", [][]any{
		{"gender", "education", "income"},
		{"female", "master", "high"},
		{"male", "NA", "medium"},
	})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	records, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, cbrw.Record{"gender": "female", "education": "master", "income": "high"}, records[0])
	require.Equal(t, cbrw.Record{"gender": "male", "income": "medium"}, records[1])
}

func TestReadXLSX_SheetSelection(t *testing.T) {
	f := writeWorkbook(t, "census", [][]any{
		{"gender", "income"},
		{"female", "high"},
	})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	records, err := ReadXLSX(bytes.NewReader(buf.Bytes()), WithSheet("census"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, cbrw.Record{"gender": "female", "income": "high"}, records[0])

	_, err = ReadXLSX(bytes.NewReader(buf.Bytes()), WithSheet("nope"))
	require.Error(t, err)
}

func TestReadXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.xlsx")
	f := writeWorkbook(t, "Sheet1", [][]any{
		{"gender", "income"},
		{"male", "low"},
	})
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := ReadXLSXFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, cbrw.Record{"gender": "male", "income": "low"}, records[0])

	_, err = ReadXLSXFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}
