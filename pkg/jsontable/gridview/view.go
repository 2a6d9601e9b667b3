// Package gridview derives sub-grids from a raw sheet grid by skipping rows and selecting a range.
package gridview

import (
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/parser"
)

// View is a derived grid with its dimensions.
type View struct {
	// Grid is the derived grid.
	Grid models.Grid
	// Rows is the number of rows in Grid.
	Rows int
	// Cols is the number of columns in Grid.
	Cols int
}

// New wraps grid in a View.
func New(grid models.Grid) View {
	return View{Grid: grid, Rows: grid.Rows(), Cols: grid.Cols()}
}

// Apply skips rows first, then extracts sel from what remains.
// sel coordinates are relative to the skipped grid. Either argument may be nil.
func Apply(grid models.Grid, sel *models.RangeSelection, skip []int) (View, error) {
	skipped, err := parser.ApplySkipRows(grid, skip)
	if err != nil {
		return View{}, err
	}
	if sel == nil {
		return New(skipped), nil
	}
	return Extract(skipped, *sel)
}

// Extract validates sel against grid and copies the selected rectangle.
func Extract(grid models.Grid, sel models.RangeSelection) (View, error) {
	if err := parser.ValidateAgainstData(sel, grid.Rows(), grid.Cols()); err != nil {
		return View{}, err
	}
	out := parser.ExtractRange(grid, sel)
	return View{Grid: out, Rows: sel.Rows(), Cols: sel.Cols()}, nil
}
