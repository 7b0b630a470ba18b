// Package loader reads categorical records from tabular files.
//
// Both readers expect a header row of field names; every following row
// becomes one cbrw.Record. Cells holding a missing-value token (empty,
// "NA", "NaN", "null", ...) are dropped from their record, matching the
// detector's treatment of missing fields.
package loader

import (
	"strings"

	"github.com/hupe1980/cbrw"
)

var defaultMissingTokens = []string{"", "na", "n/a", "nan", "null", "none"}

type options struct {
	missing map[string]struct{}
	sheet   string
}

// Option configures a reader.
type Option func(*options)

// WithMissingTokens replaces the set of cell values treated as missing.
// Matching is case-insensitive after trimming whitespace.
func WithMissingTokens(tokens ...string) Option {
	return func(o *options) {
		o.missing = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			o.missing[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
	}
}

// WithSheet selects the XLSX sheet to read. Defaults to the first sheet.
// Ignored by the CSV reader.
func WithSheet(name string) Option {
	return func(o *options) { o.sheet = name }
}

func applyOptions(opts []Option) options {
	o := options{}
	WithMissingTokens(defaultMissingTokens...)(&o)
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o *options) isMissing(cell string) bool {
	_, ok := o.missing[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// recordFromRow zips a header with one data row. Rows shorter than the
// header simply miss the trailing fields; surplus cells are ignored.
func recordFromRow(o *options, header, row []string) cbrw.Record {
	rec := make(cbrw.Record, len(header))
	for i, field := range header {
		if field == "" || i >= len(row) {
			continue
		}
		if o.isMissing(row[i]) {
			continue
		}
		rec[field] = strings.TrimSpace(row[i])
	}
	return rec
}
