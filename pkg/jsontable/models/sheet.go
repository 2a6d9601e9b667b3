package models

// SheetData holds everything read from one sheet in a single pass.
type SheetData struct {
	// Sheet is the resolved sheet name.
	Sheet string `json:"sheet"`
	// SheetNames lists the workbook's sheets in order.
	SheetNames []string `json:"sheet_names"`
	// Grid holds the sheet's cell text.
	Grid Grid `json:"grid"`
	// Regions lists the sheet's merged cell regions.
	Regions []MergedRegion `json:"regions"`
	// PrintArea is the sheet's first print area, nil when it has none.
	PrintArea *RangeSelection `json:"print_area,omitempty"`
}
