package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// ParseRangeValue parses a loosely typed range option, failing TypeMismatch on non-text input.
func ParseRangeValue(v any) (models.RangeSelection, error) {
	s, ok := v.(string)
	if !ok {
		return models.RangeSelection{}, tableerr.New(tableerr.TypeMismatch, fmt.Sprint(v), "range must be a string, got %T", v)
	}
	return ParseRange(s)
}

// ParseRange parses a range like "A1:C10" or a single cell like "B2".
func ParseRange(spec string) (models.RangeSelection, error) {
	text := strings.ToUpper(strings.TrimSpace(spec))
	if text == "" {
		return models.RangeSelection{}, tableerr.New(tableerr.EmptyRange, spec, "range is blank")
	}

	parts := strings.Split(text, ":")
	if len(parts) > 2 {
		return models.RangeSelection{}, tableerr.New(tableerr.MalformedRange, spec, "expected at most one ':'")
	}

	start, err := parseRangeEnd(parts[0], spec)
	if err != nil {
		return models.RangeSelection{}, err
	}
	end := start
	if len(parts) == 2 {
		end, err = parseRangeEnd(parts[1], spec)
		if err != nil {
			return models.RangeSelection{}, err
		}
	}

	if start.Row > end.Row || start.Col > end.Col {
		return models.RangeSelection{}, tableerr.New(tableerr.InvertedRange, spec, "start cell lies after end cell")
	}

	return models.RangeSelection{
		StartRow: start.Row,
		EndRow:   end.Row,
		StartCol: start.Col,
		EndCol:   end.Col,
	}, nil
}

// parseRangeEnd parses one side of a range, attributing failures to the whole spec.
func parseRangeEnd(part, spec string) (models.CellAddress, error) {
	addr, err := ParseCellAddress(strings.TrimSpace(part))
	if err == nil {
		return addr, nil
	}
	if errors.Is(err, errOutOfBounds) {
		return models.CellAddress{}, tableerr.Wrap(err, tableerr.RangeTooLarge, spec, "range exceeds %d rows x %d columns", models.MaxRows, models.MaxCols)
	}
	return models.CellAddress{}, tableerr.Wrap(err, tableerr.MalformedRange, spec, "invalid cell address %q", part)
}

// ValidateAgainstData checks that the selection fits a grid of rows x cols.
func ValidateAgainstData(sel models.RangeSelection, rows, cols int) error {
	spec := FormatRange(sel)
	if rows <= 0 || cols <= 0 {
		return tableerr.New(tableerr.RangeExceedsData, spec, "data is empty (%d rows x %d columns)", rows, cols)
	}
	if sel.EndRow >= rows {
		return tableerr.New(tableerr.RangeExceedsData, spec, "end row %d past data rows %d", sel.EndRow+1, rows)
	}
	if sel.EndCol >= cols {
		return tableerr.New(tableerr.RangeExceedsData, spec, "end column %s past data columns %d", IndexToColumnLetter(sel.EndCol), cols)
	}
	return nil
}

// FormatRange renders a selection in A1:B2 notation.
func FormatRange(sel models.RangeSelection) string {
	start := FormatCellAddress(models.CellAddress{Row: sel.StartRow, Col: sel.StartCol})
	end := FormatCellAddress(models.CellAddress{Row: sel.EndRow, Col: sel.EndCol})
	return start + ":" + end
}

// ExtractRange copies the selected rectangle out of grid.
// Short or missing source rows are padded with empty strings.
func ExtractRange(grid models.Grid, sel models.RangeSelection) models.Grid {
	out := make(models.Grid, 0, sel.Rows())
	for r := sel.StartRow; r <= sel.EndRow; r++ {
		row := make([]string, sel.Cols())
		for c := sel.StartCol; c <= sel.EndCol; c++ {
			row[c-sel.StartCol] = grid.Cell(r, c)
		}
		out = append(out, row)
	}
	return out
}
