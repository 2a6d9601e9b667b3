// Package header flattens one or more header rows into unique column names.
package header

import (
	"strconv"
	"strings"
)

const (
	// BlankMarker names a column with no resolvable header text.
	BlankMarker = "Unnamed"
	// DefaultSeparator joins the parts of a multi-row header.
	DefaultSeparator = "_"
	// defaultPrefix precedes the 1-based position of a column without a name.
	defaultPrefix = "Column"
)

// Merge flattens header rows into one name per column.
//
// Each row contributes to a column, in order of preference: its own trimmed
// text; the nearest non-empty cell to its left (a horizontal merge); the
// blank marker when it is the first row; or the text of an ancestor above
// whose span covers the column. Consecutive duplicate contributions collapse
// before joining with sep. Names are then normalized and de-duplicated.
func Merge(rows [][]string, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	names := make([]string, width)
	for col := 0; col < width; col++ {
		var parts []string
		for rowIdx := range rows {
			part, ok := contribution(rows, rowIdx, col)
			if !ok {
				continue
			}
			if len(parts) > 0 && parts[len(parts)-1] == part {
				continue
			}
			parts = append(parts, part)
		}
		name := strings.Join(parts, sep)
		if name == "" {
			name = defaultName(col)
		}
		names[col] = Normalize(name, sep)
	}
	return Dedupe(names)
}

// Single turns one header row into names: trimmed text, or Column<N> for blanks,
// de-duplicated.
func Single(row []string) []string {
	names := make([]string, len(row))
	for col, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = defaultName(col)
		}
		names[col] = name
	}
	return Dedupe(names)
}

// contribution returns what row rowIdx adds to the name of column col.
func contribution(rows [][]string, rowIdx, col int) (string, bool) {
	row := rows[rowIdx]
	if text := cellText(row, col); text != "" {
		return text, true
	}
	if left := leftNeighbor(row, col); left >= 0 {
		return cellText(row, left), true
	}
	if rowIdx == 0 {
		return BlankMarker, true
	}

	// A cell's span runs up to the next non-empty cell on its right, so the
	// covering ancestor in a row is the cell at col or the nearest one left of it.
	for cursor := rowIdx - 1; cursor >= 0; cursor-- {
		above := rows[cursor]
		anchor := col
		if cellText(above, anchor) == "" {
			anchor = leftNeighbor(above, col)
		}
		if anchor >= 0 {
			return cellText(above, anchor), true
		}
	}
	return "", false
}

// leftNeighbor returns the nearest column left of col holding text, or -1.
func leftNeighbor(row []string, col int) int {
	for c := min(col, len(row)) - 1; c >= 0; c-- {
		if cellText(row, c) != "" {
			return c
		}
	}
	return -1
}

func cellText(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func defaultName(col int) string {
	return defaultPrefix + strconv.Itoa(col+1)
}

// Dedupe suffixes later duplicates with _1, _2, ... in column order.
func Dedupe(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		candidate := name
		for taken[candidate] {
			counts[name]++
			candidate = name + "_" + strconv.Itoa(counts[name])
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}
