package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/cbrw"
)

// ReadCSV reads records from CSV data. The first row is the header of
// field names.
func ReadCSV(r io.Reader, opts ...Option) ([]cbrw.Record, error) {
	o := applyOptions(opts)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged; short rows mean missing fields
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loader: read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []cbrw.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read csv row: %w", err)
		}
		records = append(records, recordFromRow(&o, header, row))
	}
	return records, nil
}

// ReadCSVFile reads records from a CSV file.
func ReadCSVFile(path string, opts ...Option) ([]cbrw.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, opts...)
}
