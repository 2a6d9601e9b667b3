package detect

// Tuning constants for data block detection.
const (
	// MinRowCells is the number of non-empty cells a row needs to count as data.
	MinRowCells = 2
	// MaxRowGap is the number of consecutive non-data rows tolerated inside one block.
	MaxRowGap = 2
	// MinSmartBlockCells is the smallest region kept by smart detection.
	MinSmartBlockCells = 2
	// HeaderTextRatio is the share of text cells a first row needs to read as a header.
	HeaderTextRatio = 0.5
	// DefaultRange is returned when no data block is found.
	DefaultRange = "A1:A1"
)
