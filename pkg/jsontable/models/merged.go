package models

// MergedRegion represents a rectangular group of cells displayed as one.
type MergedRegion struct {
	// MinRow is the first row (0-based).
	MinRow int `json:"min_row"`
	// MaxRow is the last row (0-based, inclusive).
	MaxRow int `json:"max_row"`
	// MinCol is the first column (0-based).
	MinCol int `json:"min_col"`
	// MaxCol is the last column (0-based, inclusive).
	MaxCol int `json:"max_col"`
	// AnchorValue is the value at (MinRow, MinCol).
	AnchorValue string `json:"anchor_value"`
}
