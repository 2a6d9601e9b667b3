package detect

import "github.com/sasakama-code/jsontable-go/pkg/jsontable/models"

// rowBlock is a run of data rows, possibly with small gaps.
type rowBlock struct {
	startRow int
	endRow   int
	nonEmpty int
	header   bool
}

// Auto picks the densest run of data rows and bounds its columns.
// Rows with at least MinRowCells non-empty cells are data rows; runs separated by
// at most MaxRowGap other rows are merged. The winner has the most non-empty
// cells, then a header-looking first row, then the most rows.
func Auto(grid models.Grid) Result {
	blocks := findRowBlocks(grid)
	if len(blocks) == 0 {
		return defaultResult(ModeAuto)
	}

	best := blocks[0]
	for _, b := range blocks[1:] {
		if betterBlock(b, best) {
			best = b
		}
	}

	minCol, maxCol := findColumnBounds(grid, best.startRow, best.endRow)
	if minCol < 0 {
		return defaultResult(ModeAuto)
	}

	return blockResult(ModeAuto, models.DataBlock{
		MinRow:             best.startRow,
		MaxRow:             best.endRow,
		MinCol:             minCol,
		MaxCol:             maxCol,
		TotalNonEmptyCells: countNonEmptyCells(grid, best.startRow, best.endRow, minCol, maxCol),
		LooksLikeHeader:    best.header,
	})
}

// findRowBlocks groups data rows into blocks tolerating gaps of MaxRowGap rows.
func findRowBlocks(grid models.Grid) []rowBlock {
	var blocks []rowBlock
	var cur *rowBlock

	for rowIdx, row := range grid {
		score := scoreRow(row)
		if score.nonEmpty < MinRowCells {
			continue
		}
		if cur != nil && rowIdx-cur.endRow-1 <= MaxRowGap {
			cur.endRow = rowIdx
			cur.nonEmpty += score.nonEmpty
			continue
		}
		blocks = append(blocks, rowBlock{
			startRow: rowIdx,
			endRow:   rowIdx,
			nonEmpty: score.nonEmpty,
			header:   score.looksLikeHeader(),
		})
		cur = &blocks[len(blocks)-1]
	}

	return blocks
}

// betterBlock compares blocks by (non-empty cells, header flag, height).
func betterBlock(a, b rowBlock) bool {
	if a.nonEmpty != b.nonEmpty {
		return a.nonEmpty > b.nonEmpty
	}
	if a.header != b.header {
		return a.header
	}
	return a.endRow-a.startRow > b.endRow-b.startRow
}

// findColumnBounds finds the leftmost and rightmost non-empty columns in a row span.
// Returns -1, -1 when the span is empty.
func findColumnBounds(grid models.Grid, startRow, endRow int) (minCol, maxCol int) {
	minCol, maxCol = -1, -1
	for rowIdx := startRow; rowIdx <= endRow && rowIdx < len(grid); rowIdx++ {
		for colIdx, cell := range grid[rowIdx] {
			if isBlank(cell) {
				continue
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(grid models.Grid, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if !isBlank(row[colIdx]) {
				count++
			}
		}
	}
	return count
}
