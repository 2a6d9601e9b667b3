// Package models defines data structures for sheet-to-table extraction.
package models

// Sheet maxima for .xlsx workbooks.
const (
	// MaxRows is the number of rows in a sheet.
	MaxRows = 1048576
	// MaxCols is the number of columns in a sheet (A..XFD).
	MaxCols = 16384
	// MaxSkipRows caps the number of rows a skip spec may name.
	MaxSkipRows = 10000
)

// CellAddress represents a zero-based cell position.
type CellAddress struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// InBounds reports whether the address lies inside the sheet maxima.
func (a CellAddress) InBounds() bool {
	return a.Row >= 0 && a.Col >= 0 && a.Row < MaxRows && a.Col < MaxCols
}
