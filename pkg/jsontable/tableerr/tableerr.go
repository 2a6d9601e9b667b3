// Package tableerr defines the error kinds raised while turning a sheet into a table.
package tableerr

import (
	"errors"
	"fmt"
)

// Kind represents the category of a table extraction error.
type Kind string

const (
	// InvalidAddress indicates a cell address or column letter that cannot be decoded.
	InvalidAddress Kind = "invalid_address"
	// MalformedRange indicates a range string with the wrong shape.
	MalformedRange Kind = "malformed_range"
	// EmptyRange indicates a blank range string.
	EmptyRange Kind = "empty_range"
	// InvertedRange indicates a range whose start lies after its end.
	InvertedRange Kind = "inverted_range"
	// RangeTooLarge indicates a range past the sheet maxima.
	RangeTooLarge Kind = "range_too_large"
	// RangeExceedsData indicates a range that does not fit the loaded data.
	RangeExceedsData Kind = "range_exceeds_data"
	// EmptySpec indicates a blank skip-rows spec.
	EmptySpec Kind = "empty_spec"
	// MalformedSkipSpec indicates a skip-rows spec part that is not an index or range.
	MalformedSkipSpec Kind = "malformed_skip_spec"
	// TooManySkipRows indicates a skip-rows spec over the row cap.
	TooManySkipRows Kind = "too_many_skip_rows"
	// SkipRowOutOfRange indicates a skipped row past the end of the data.
	SkipRowOutOfRange Kind = "skip_row_out_of_range"
	// InvalidDetectMode indicates an unknown data block detection mode.
	InvalidDetectMode Kind = "invalid_detect_mode"
	// InvalidMergeMode indicates an unknown merged cell policy.
	InvalidMergeMode Kind = "invalid_merge_mode"
	// TypeMismatch indicates an option value of the wrong type.
	TypeMismatch Kind = "type_mismatch"
	// HeaderRowOutOfRange indicates a header row outside the selected rows.
	HeaderRowOutOfRange Kind = "header_row_out_of_range"
	// SourceNotFound indicates the source workbook does not exist.
	SourceNotFound Kind = "source_not_found"
	// UnsupportedFormat indicates the source is not a readable workbook.
	UnsupportedFormat Kind = "unsupported_format"
	// SheetNotFound indicates the requested sheet is not in the workbook.
	SheetNotFound Kind = "sheet_not_found"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidAddress      = &Error{Kind: InvalidAddress}
	ErrMalformedRange      = &Error{Kind: MalformedRange}
	ErrEmptyRange          = &Error{Kind: EmptyRange}
	ErrInvertedRange       = &Error{Kind: InvertedRange}
	ErrRangeTooLarge       = &Error{Kind: RangeTooLarge}
	ErrRangeExceedsData    = &Error{Kind: RangeExceedsData}
	ErrEmptySpec           = &Error{Kind: EmptySpec}
	ErrMalformedSkipSpec   = &Error{Kind: MalformedSkipSpec}
	ErrTooManySkipRows     = &Error{Kind: TooManySkipRows}
	ErrSkipRowOutOfRange   = &Error{Kind: SkipRowOutOfRange}
	ErrInvalidDetectMode   = &Error{Kind: InvalidDetectMode}
	ErrInvalidMergeMode    = &Error{Kind: InvalidMergeMode}
	ErrTypeMismatch        = &Error{Kind: TypeMismatch}
	ErrHeaderRowOutOfRange = &Error{Kind: HeaderRowOutOfRange}
	ErrSourceNotFound      = &Error{Kind: SourceNotFound}
	ErrUnsupportedFormat   = &Error{Kind: UnsupportedFormat}
	ErrSheetNotFound       = &Error{Kind: SheetNotFound}
)

// Error is a table extraction error carrying the offending input verbatim.
type Error struct {
	Kind    Kind
	Input   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Input != "" {
		msg += fmt.Sprintf(" (input %q)", e.Input)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a new Error.
func New(kind Kind, input, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Input:   input,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error around cause.
func Wrap(cause error, kind Kind, input, format string, args ...any) *Error {
	e := New(kind, input, format, args...)
	e.Cause = cause
	return e
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether any error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}
