package models

import "time"

// FileInfo holds source file metadata.
type FileInfo struct {
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// ModTime is the last modification time.
	ModTime time.Time `json:"mod_time"`
}

// TableData is the result of extracting one table from a sheet.
type TableData struct {
	// Data contains the data rows, excluding header rows.
	Data Grid `json:"data"`
	// Headers contains one name per column, or nil without a header.
	Headers []string `json:"headers,omitempty"`
	// HasHeader reports whether header rows were split off.
	HasHeader bool `json:"has_header"`
	// Rows is the number of data rows.
	Rows int `json:"rows"`
	// Cols is the number of columns.
	Cols int `json:"cols"`
	// Sheet is the sheet the table was read from.
	Sheet string `json:"sheet"`
	// Range is the applied range (A1 notation), if any.
	Range string `json:"range,omitempty"`
	// DetectedRange is the range chosen by data block detection, if any.
	DetectedRange string `json:"detected_range,omitempty"`
	// SkipRows echoes the skip-rows spec.
	SkipRows string `json:"skip_rows,omitempty"`
	// HeaderRow echoes the requested header row (0-based, sheet coordinates).
	HeaderRow *int `json:"header_row,omitempty"`
	// HeaderRows echoes the number of header rows.
	HeaderRows int `json:"header_rows,omitempty"`
	// MergeMode echoes the merged cell policy.
	MergeMode string `json:"merge_mode,omitempty"`
	// DetectMode echoes the detection mode.
	DetectMode string `json:"detect_mode,omitempty"`
}
