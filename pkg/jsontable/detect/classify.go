package detect

import (
	"regexp"
	"strings"
)

// numericPattern matches integers, decimals, scientific notation and percentages.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?%?$`)

// currencyPrefixes are stripped before the numeric test.
var currencyPrefixes = []string{"$", "¥", "€", "£", "￥"}

// isBlank reports whether a cell carries no value.
func isBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// looksNumeric reports whether a non-empty cell reads as a number.
func looksNumeric(cell string) bool {
	s := strings.TrimSpace(cell)
	for _, p := range currencyPrefixes {
		s = strings.TrimPrefix(s, p)
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return false
	}
	return numericPattern.MatchString(s)
}

// rowScore holds per-row cell counts.
type rowScore struct {
	nonEmpty int
	text     int
}

// scoreRow counts non-empty and text (non-numeric) cells in a row.
func scoreRow(row []string) rowScore {
	var s rowScore
	for _, cell := range row {
		if isBlank(cell) {
			continue
		}
		s.nonEmpty++
		if !looksNumeric(cell) {
			s.text++
		}
	}
	return s
}

// looksLikeHeader reports whether a row reads as a header: mostly text.
func (s rowScore) looksLikeHeader() bool {
	return s.text > 0 && float64(s.text) >= HeaderTextRatio*float64(s.nonEmpty)
}
