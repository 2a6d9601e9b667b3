package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

var (
	skipIndexPattern = regexp.MustCompile(`^[0-9]+$`)
	skipRangePattern = regexp.MustCompile(`^([0-9]+)\s*-\s*([0-9]+)$`)
)

// ParseSkipRowsValue parses a loosely typed skip-rows option, failing TypeMismatch on non-text input.
func ParseSkipRowsValue(v any) ([]int, error) {
	s, ok := v.(string)
	if !ok {
		return nil, tableerr.New(tableerr.TypeMismatch, fmt.Sprint(v), "skip rows must be a string, got %T", v)
	}
	return ParseSkipRows(s)
}

// ParseSkipRows parses a spec like "0-2,5,7-9" into a sorted, de-duplicated list of 0-based rows.
func ParseSkipRows(spec string) ([]int, error) {
	text := strings.TrimSpace(spec)
	if text == "" {
		return nil, tableerr.New(tableerr.EmptySpec, spec, "skip rows spec is blank")
	}

	seen := make(map[int]struct{})
	for _, raw := range strings.Split(text, ",") {
		part := strings.TrimSpace(raw)

		if skipIndexPattern.MatchString(part) {
			row, err := parseSkipIndex(part, spec)
			if err != nil {
				return nil, err
			}
			seen[row] = struct{}{}
			continue
		}

		m := skipRangePattern.FindStringSubmatch(part)
		if m == nil {
			return nil, tableerr.New(tableerr.MalformedSkipSpec, spec, "part %q is not a row or start-end range", part)
		}
		start, err := parseSkipIndex(m[1], spec)
		if err != nil {
			return nil, err
		}
		end, err := parseSkipIndex(m[2], spec)
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, tableerr.New(tableerr.MalformedSkipSpec, spec, "range %q starts after it ends", part)
		}
		if end-start+1 > models.MaxSkipRows {
			return nil, tableerr.New(tableerr.TooManySkipRows, spec, "range %q covers more than %d rows", part, models.MaxSkipRows)
		}
		for row := start; row <= end; row++ {
			seen[row] = struct{}{}
		}
		if len(seen) > models.MaxSkipRows {
			return nil, tableerr.New(tableerr.TooManySkipRows, spec, "more than %d rows", models.MaxSkipRows)
		}
	}

	if len(seen) > models.MaxSkipRows {
		return nil, tableerr.New(tableerr.TooManySkipRows, spec, "more than %d rows", models.MaxSkipRows)
	}

	rows := make([]int, 0, len(seen))
	for row := range seen {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows, nil
}

func parseSkipIndex(s, spec string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n >= models.MaxRows {
		return 0, tableerr.New(tableerr.MalformedSkipSpec, spec, "row %s must be below %d", s, models.MaxRows)
	}
	return n, nil
}

// ApplySkipRows removes the skipped rows from grid, keeping the remaining order.
// skip must be sorted ascending, as returned by ParseSkipRows.
func ApplySkipRows(grid models.Grid, skip []int) (models.Grid, error) {
	if len(skip) == 0 {
		return grid, nil
	}
	if last := skip[len(skip)-1]; last >= len(grid) {
		return nil, tableerr.New(tableerr.SkipRowOutOfRange, strconv.Itoa(last), "row %d past %d data rows", last, len(grid))
	}

	out := make(models.Grid, 0, len(grid)-len(skip))
	next := 0
	for i, row := range grid {
		if next < len(skip) && skip[next] == i {
			next++
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// AdjustHeaderRow maps a sheet row index to its index after skip is applied.
func AdjustHeaderRow(headerRow int, skip []int) (int, error) {
	below := 0
	for _, row := range skip {
		if row == headerRow {
			return 0, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(headerRow), "header row is skipped")
		}
		if row < headerRow {
			below++
		}
	}
	return headerRow - below, nil
}
