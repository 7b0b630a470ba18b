package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hupe1980/cbrw"
)

// ReadXLSX reads records from XLSX data. The first row of the selected
// sheet (default: first sheet) is the header of field names.
func ReadXLSX(r io.Reader, opts ...Option) ([]cbrw.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("loader: open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readSheet(f, opts)
}

// ReadXLSXFile reads records from an XLSX file.
func ReadXLSXFile(path string, opts ...Option) ([]cbrw.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readSheet(f, opts)
}

func readSheet(f *excelize.File, opts []Option) ([]cbrw.Record, error) {
	o := applyOptions(opts)

	sheet := o.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("loader: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make([]cbrw.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(&o, header, row))
	}
	return records, nil
}
