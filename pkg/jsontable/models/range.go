package models

// RangeSelection represents a rectangular cell range.
// All bounds are 0-based and inclusive; StartRow <= EndRow and StartCol <= EndCol.
type RangeSelection struct {
	// StartRow is the first row (0-based).
	StartRow int `json:"start_row"`
	// EndRow is the last row (0-based, inclusive).
	EndRow int `json:"end_row"`
	// StartCol is the first column (0-based).
	StartCol int `json:"start_col"`
	// EndCol is the last column (0-based, inclusive).
	EndCol int `json:"end_col"`
}

// Rows returns the number of rows covered by the selection.
func (s RangeSelection) Rows() int {
	return s.EndRow - s.StartRow + 1
}

// Cols returns the number of columns covered by the selection.
func (s RangeSelection) Cols() int {
	return s.EndCol - s.StartCol + 1
}

// Contains reports whether the cell at (row, col) is inside the selection.
func (s RangeSelection) Contains(row, col int) bool {
	return row >= s.StartRow && row <= s.EndRow && col >= s.StartCol && col <= s.EndCol
}
