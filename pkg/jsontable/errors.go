package jsontable

import (
	"fmt"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound error = tableerr.ErrSourceNotFound

// ErrInvalidFormat indicates the input file is not a supported workbook format.
var ErrInvalidFormat error = tableerr.ErrUnsupportedFormat

// ExtractionError represents a failure while reading from the sheet source.
type ExtractionError struct {
	Path      string
	SheetName string
	Component string // "metadata", "sheet", "cells", "merged_cells", "print_area"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in %s sheet %q (%s): %v", e.Path, e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(path, sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		Path:      path,
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
