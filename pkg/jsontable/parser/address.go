// Package parser converts spreadsheet selectors and workbook contents into table inputs.
package parser

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// errOutOfBounds marks an address that is well-formed but past the sheet maxima.
var errOutOfBounds = errors.New("address out of sheet bounds")

var cellAddressPattern = regexp.MustCompile(`^([A-Z]+)([1-9][0-9]*)$`)

// maxColumnLetters is the length of the widest column name (XFD).
const maxColumnLetters = 3

// ColumnLetterToIndex decodes a column name (A, Z, AA, ...) into a 0-based index.
func ColumnLetterToIndex(letters string) (int, error) {
	if letters == "" {
		return 0, tableerr.New(tableerr.InvalidAddress, letters, "empty column name")
	}
	col := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if ch < 'A' || ch > 'Z' {
			return 0, tableerr.New(tableerr.InvalidAddress, letters, "column name must be A-Z")
		}
		col = col*26 + int(ch-'A'+1)
		if i >= maxColumnLetters {
			// keep decoding bounded; anything this long is past XFD
			return 0, tableerr.Wrap(errOutOfBounds, tableerr.InvalidAddress, letters, "column past %d", models.MaxCols)
		}
	}
	return col - 1, nil
}

// IndexToColumnLetter encodes a 0-based column index as a column name.
// Negative indexes yield "".
func IndexToColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var buf [8]byte
	pos := len(buf)
	column := index + 1
	for column > 0 {
		column--
		pos--
		buf[pos] = byte('A' + column%26)
		column /= 26
	}
	return string(buf[pos:])
}

// ParseCellAddress parses an address like "B7" into a 0-based CellAddress.
func ParseCellAddress(text string) (models.CellAddress, error) {
	m := cellAddressPattern.FindStringSubmatch(text)
	if m == nil {
		return models.CellAddress{}, tableerr.New(tableerr.InvalidAddress, text, "expected column letters followed by a row number")
	}

	col, err := ColumnLetterToIndex(m[1])
	if err != nil {
		return models.CellAddress{}, tableerr.Wrap(err, tableerr.InvalidAddress, text, "bad column")
	}

	rowNum, err := strconv.Atoi(m[2])
	if err != nil || rowNum > models.MaxRows {
		return models.CellAddress{}, tableerr.Wrap(errOutOfBounds, tableerr.InvalidAddress, text, "row past %d", models.MaxRows)
	}

	addr := models.CellAddress{Row: rowNum - 1, Col: col}
	if !addr.InBounds() {
		return models.CellAddress{}, tableerr.Wrap(errOutOfBounds, tableerr.InvalidAddress, text, "column past %d", models.MaxCols)
	}
	return addr, nil
}

// FormatCellAddress renders a 0-based address in A1 notation.
func FormatCellAddress(addr models.CellAddress) string {
	return IndexToColumnLetter(addr.Col) + strconv.Itoa(addr.Row+1)
}
