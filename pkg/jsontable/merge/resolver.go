// Package merge rewrites grid regions covered by merged cells according to a policy.
package merge

import (
	"strconv"
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// Mode represents the merged cell policy.
type Mode string

const (
	// ModeExpand copies the anchor value into every cell of the region.
	ModeExpand Mode = "expand"
	// ModeIgnore keeps the anchor value and blanks the rest of the region.
	ModeIgnore Mode = "ignore"
	// ModeFirstValue behaves exactly like ModeIgnore; both names are accepted.
	ModeFirstValue Mode = "first-value"
)

// DefaultMode is used when no policy is given.
const DefaultMode = ModeExpand

// ParseMode parses a merged cell policy name. Blank selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultMode, nil
	case "expand":
		return ModeExpand, nil
	case "ignore":
		return ModeIgnore, nil
	case "first-value", "first_value":
		return ModeFirstValue, nil
	default:
		return "", tableerr.New(tableerr.InvalidMergeMode, s, "must be expand, ignore or first-value")
	}
}

// region is a merged region in grid coordinates, possibly clipped.
type region struct {
	models.MergedRegion
	// anchorInside is false when clipping cut the anchor cell away.
	anchorInside bool
}

// Resolve applies the policy to every region, in order, over a copy of grid.
// Later regions win on shared cells. Regions past the last row are clipped;
// short rows are padded so that expanded values land.
func Resolve(grid models.Grid, regions []models.MergedRegion, mode Mode) (models.Grid, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	clipped := make([]region, 0, len(regions))
	for _, r := range regions {
		clipped = append(clipped, region{MergedRegion: r, anchorInside: true})
	}
	return apply(grid.Clone(), clipped, mode), nil
}

// ResolveInSelection extracts sel from grid and applies the policy with every
// region translated into selection-relative coordinates. Regions are clipped
// to the selection; regions fully outside are dropped.
func ResolveInSelection(grid models.Grid, regions []models.MergedRegion, mode Mode, sel models.RangeSelection) (models.Grid, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	out := make(models.Grid, sel.Rows())
	for r := range out {
		row := make([]string, sel.Cols())
		for c := range row {
			row[c] = grid.Cell(sel.StartRow+r, sel.StartCol+c)
		}
		out[r] = row
	}

	return apply(out, translateRegions(regions, sel), mode), nil
}

// translateRegions clips regions to sel and shifts them to selection-relative coordinates.
func translateRegions(regions []models.MergedRegion, sel models.RangeSelection) []region {
	var out []region
	for _, r := range regions {
		if r.MaxRow < sel.StartRow || r.MinRow > sel.EndRow || r.MaxCol < sel.StartCol || r.MinCol > sel.EndCol {
			continue
		}
		anchorInside := sel.Contains(r.MinRow, r.MinCol)
		out = append(out, region{
			MergedRegion: models.MergedRegion{
				MinRow:      max(r.MinRow, sel.StartRow) - sel.StartRow,
				MaxRow:      min(r.MaxRow, sel.EndRow) - sel.StartRow,
				MinCol:      max(r.MinCol, sel.StartCol) - sel.StartCol,
				MaxCol:      min(r.MaxCol, sel.EndCol) - sel.StartCol,
				AnchorValue: r.AnchorValue,
			},
			anchorInside: anchorInside,
		})
	}
	return out
}

// ResolveWithHeader applies the policy over the full grid, then splits off
// the header row. Merges spanning header and data therefore resolve before
// the split.
func ResolveWithHeader(grid models.Grid, regions []models.MergedRegion, mode Mode, headerRow int) ([]string, models.Grid, error) {
	resolved, err := Resolve(grid, regions, mode)
	if err != nil {
		return nil, nil, err
	}
	if headerRow < 0 || headerRow >= len(resolved) {
		return nil, nil, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(headerRow), "grid has %d rows", len(resolved))
	}
	header := resolved[headerRow]
	data := make(models.Grid, 0, len(resolved)-1)
	data = append(data, resolved[:headerRow]...)
	data = append(data, resolved[headerRow+1:]...)
	return header, data, nil
}

func checkMode(mode Mode) error {
	switch mode {
	case ModeExpand, ModeIgnore, ModeFirstValue:
		return nil
	}
	return tableerr.New(tableerr.InvalidMergeMode, string(mode), "unknown merge mode")
}

func apply(grid models.Grid, regions []region, mode Mode) models.Grid {
	for _, r := range regions {
		maxRow := min(r.MaxRow, len(grid)-1)
		for row := r.MinRow; row <= maxRow; row++ {
			if row < 0 {
				continue
			}
			if len(grid[row]) <= r.MaxCol {
				padded := make([]string, r.MaxCol+1)
				copy(padded, grid[row])
				grid[row] = padded
			}
			for col := r.MinCol; col <= r.MaxCol; col++ {
				grid[row][col] = cellValue(r, row, col, mode)
			}
		}
	}
	return grid
}

func cellValue(r region, row, col int, mode Mode) string {
	if mode == ModeExpand {
		return r.AnchorValue
	}
	if r.anchorInside && row == r.MinRow && col == r.MinCol {
		return r.AnchorValue
	}
	return ""
}
