// Package detect locates the rectangular data region of a sparsely filled sheet.
package detect

import (
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/parser"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// Mode represents the detection strategy.
type Mode string

const (
	// ModeNone disables detection.
	ModeNone Mode = ""
	// ModeAuto scores rows by density and picks the best block of rows.
	ModeAuto Mode = "auto"
	// ModeSmart grows rectangular regions of filled cells and picks the largest.
	ModeSmart Mode = "smart"
	// ModeManual uses a caller-supplied range hint without heuristics.
	ModeManual Mode = "manual"
)

// ParseMode parses a detection mode name. Blank and "none" disable detection.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "auto":
		return ModeAuto, nil
	case "smart":
		return ModeSmart, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModeNone, tableerr.New(tableerr.InvalidDetectMode, s, "must be auto, smart or manual")
	}
}

// Result is the outcome of a detection call.
type Result struct {
	// Mode is the strategy that produced the result.
	Mode Mode
	// Range is the detected range in A1 notation.
	Range string
	// Selection is the detected range.
	Selection models.RangeSelection
	// Block is the winning block, or nil when detection fell back to DefaultRange
	// or ran in manual mode.
	Block *models.DataBlock
}

// Found reports whether a data block was detected.
func (r Result) Found() bool {
	return r.Block != nil
}

// Detect locates the data region of grid using mode.
// hint is only read in manual mode. Auto and smart never fail.
func Detect(grid models.Grid, mode Mode, hint string) (Result, error) {
	switch mode {
	case ModeAuto:
		return Auto(grid), nil
	case ModeSmart:
		return Smart(grid), nil
	case ModeManual:
		return Manual(grid, hint)
	default:
		return Result{}, tableerr.New(tableerr.InvalidDetectMode, string(mode), "no detection strategy")
	}
}

// Manual validates a caller-supplied range against grid.
func Manual(grid models.Grid, hint string) (Result, error) {
	sel, err := parser.ParseRange(hint)
	if err != nil {
		return Result{}, err
	}
	if err := parser.ValidateAgainstData(sel, grid.Rows(), grid.Cols()); err != nil {
		return Result{}, err
	}
	return Result{Mode: ModeManual, Range: parser.FormatRange(sel), Selection: sel}, nil
}

func defaultResult(mode Mode) Result {
	return Result{Mode: mode, Range: DefaultRange, Selection: models.RangeSelection{}}
}

func blockResult(mode Mode, block models.DataBlock) Result {
	sel := block.Selection()
	return Result{Mode: mode, Range: parser.FormatRange(sel), Selection: sel, Block: &block}
}
