// Package jsontable extracts JSON-ready tables from spreadsheet sheets.
package jsontable

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/header"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/merge"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// Options configures one table extraction.
type Options struct {
	// Sheet names the sheet to read. Blank selects the first sheet.
	Sheet string `json:"sheet,omitempty"`
	// Range restricts the table to a rectangle, e.g. "B2:F20". Coordinates are
	// relative to the grid left after SkipRows.
	Range string `json:"range,omitempty"`
	// SkipRows lists 0-based sheet rows to drop, e.g. "0-2,5".
	SkipRows string `json:"skip_rows,omitempty"`
	// HeaderRow is the 0-based sheet row of the first header row.
	// If nil, the table has no header unless AutoHeader applies.
	HeaderRow *int `json:"header_row,omitempty"`
	// HeaderRows is the number of header rows flattened into column names.
	// Zero means one.
	HeaderRows int `json:"header_rows,omitempty"`
	// HeaderSeparator joins multi-row header parts. Defaults to "_".
	HeaderSeparator string `json:"header_separator,omitempty"`
	// MergeMode is the merged cell policy (expand, ignore, first-value).
	MergeMode string `json:"merge_mode,omitempty"`
	// DetectMode enables data block detection (auto, smart, manual) when no
	// Range is given.
	DetectMode string `json:"detect_mode,omitempty"`
	// DetectHint is the range used by manual detection.
	DetectHint string `json:"detect_hint,omitempty"`
	// UsePrintArea uses the sheet's print area as the range when Range is blank.
	UsePrintArea bool `json:"use_print_area,omitempty"`
	// AutoHeader treats a detected block's first row as the header when it
	// looks like one and HeaderRow is nil.
	AutoHeader bool `json:"auto_header,omitempty"`
	// NoCache bypasses the result cache for this call.
	NoCache bool `json:"-"`
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		HeaderSeparator: header.DefaultSeparator,
		MergeMode:       string(merge.DefaultMode),
	}
}

// WithHeaderRow returns a copy of o with the header at row.
func (o Options) WithHeaderRow(row int) Options {
	o.HeaderRow = &row
	return o
}

// HeaderCount returns the effective number of header rows.
func (o Options) HeaderCount() int {
	if o.HeaderRows <= 0 {
		return 1
	}
	return o.HeaderRows
}

// withDefaults fills blank fields of o from d.
func (o Options) withDefaults(d Options) Options {
	if o.HeaderSeparator == "" {
		o.HeaderSeparator = d.HeaderSeparator
	}
	if o.HeaderSeparator == "" {
		o.HeaderSeparator = header.DefaultSeparator
	}
	if o.MergeMode == "" {
		o.MergeMode = d.MergeMode
	}
	if o.DetectMode == "" {
		o.DetectMode = d.DetectMode
	}
	return o
}

// OptionsFromMap builds Options from loosely typed values, such as those
// decoded from a manifest. Keys use the JSON names of Options plus
// "no_cache". Values of the wrong type fail TypeMismatch.
func OptionsFromMap(values map[string]any) (Options, error) {
	var o Options

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := values[key]
		var err error
		switch key {
		case "sheet":
			o.Sheet, err = stringValue(key, v)
		case "range":
			o.Range, err = stringValue(key, v)
		case "skip_rows":
			o.SkipRows, err = stringValue(key, v)
		case "header_separator":
			o.HeaderSeparator, err = stringValue(key, v)
		case "merge_mode":
			o.MergeMode, err = stringValue(key, v)
		case "detect_mode":
			o.DetectMode, err = stringValue(key, v)
		case "detect_hint":
			o.DetectHint, err = stringValue(key, v)
		case "header_row":
			var row int
			row, err = intValue(key, v)
			o.HeaderRow = &row
		case "header_rows":
			o.HeaderRows, err = intValue(key, v)
		case "use_print_area":
			o.UsePrintArea, err = boolValue(key, v)
		case "auto_header":
			o.AutoHeader, err = boolValue(key, v)
		case "no_cache":
			o.NoCache, err = boolValue(key, v)
		default:
			err = tableerr.New(tableerr.TypeMismatch, key, "unknown option")
		}
		if err != nil {
			return Options{}, err
		}
	}
	return o, nil
}

func stringValue(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch(key, v, "text")
	}
	return s, nil
}

func intValue(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, mismatch(key, v, "an integer")
		}
		return int(n), nil
	}
	return 0, mismatch(key, v, "an integer")
}

func boolValue(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, mismatch(key, v, "a boolean")
	}
	return b, nil
}

func mismatch(key string, v any, want string) error {
	return tableerr.New(tableerr.TypeMismatch, fmt.Sprint(v), "%s must be %s, got %T", strings.ReplaceAll(key, "_", " "), want, v)
}
