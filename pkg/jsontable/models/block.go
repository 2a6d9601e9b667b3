package models

// DataBlock represents a detector's inferred rectangular data region.
type DataBlock struct {
	// MinRow is the first row (0-based).
	MinRow int `json:"min_row"`
	// MaxRow is the last row (0-based, inclusive).
	MaxRow int `json:"max_row"`
	// MinCol is the first column (0-based).
	MinCol int `json:"min_col"`
	// MaxCol is the last column (0-based, inclusive).
	MaxCol int `json:"max_col"`
	// TotalNonEmptyCells is the number of non-empty cells in the block.
	TotalNonEmptyCells int `json:"total_non_empty_cells"`
	// LooksLikeHeader reports whether the first row reads as a header.
	LooksLikeHeader bool `json:"looks_like_header"`
}

// Height returns the number of rows spanned by the block.
func (b DataBlock) Height() int {
	return b.MaxRow - b.MinRow + 1
}

// Selection returns the block bounds as a RangeSelection.
func (b DataBlock) Selection() RangeSelection {
	return RangeSelection{StartRow: b.MinRow, EndRow: b.MaxRow, StartCol: b.MinCol, EndCol: b.MaxCol}
}
