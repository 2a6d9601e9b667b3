package detect

import "github.com/sasakama-code/jsontable-go/pkg/jsontable/models"

// Smart grows rectangular regions of filled cells and picks the largest.
// From each unvisited non-empty cell in row-major order the region grows right
// while cells are non-empty, then down while the whole column span stays
// non-empty. Regions smaller than MinSmartBlockCells are dropped; ties keep the
// first region found. Falls back to Auto when no region qualifies.
func Smart(grid models.Grid) Result {
	rows := grid.Rows()
	cols := grid.Cols()
	if rows == 0 || cols == 0 {
		return fallback(grid)
	}

	visited := make([][]bool, rows)
	for i := range visited {
		visited[i] = make([]bool, cols)
	}
	filled := func(r, c int) bool {
		return !visited[r][c] && !isBlank(grid.Cell(r, c))
	}

	var best *models.DataBlock
	for r := 0; r < rows; r++ {
		for c := 0; c < len(grid[r]); c++ {
			if !filled(r, c) {
				continue
			}

			endCol := c
			for endCol+1 < cols && filled(r, endCol+1) {
				endCol++
			}

			endRow := r
			for endRow+1 < rows && spanFilled(endRow+1, c, endCol, filled) {
				endRow++
			}

			for rr := r; rr <= endRow; rr++ {
				for cc := c; cc <= endCol; cc++ {
					visited[rr][cc] = true
				}
			}

			cells := (endRow - r + 1) * (endCol - c + 1)
			if cells < MinSmartBlockCells {
				continue
			}
			if best == nil || cells > best.TotalNonEmptyCells {
				best = &models.DataBlock{
					MinRow:             r,
					MaxRow:             endRow,
					MinCol:             c,
					MaxCol:             endCol,
					TotalNonEmptyCells: cells,
					LooksLikeHeader:    scoreRow(grid[r][c : endCol+1]).looksLikeHeader(),
				}
			}
		}
	}

	if best == nil {
		return fallback(grid)
	}
	return blockResult(ModeSmart, *best)
}

// spanFilled reports whether every cell of row in [startCol, endCol] is filled.
func spanFilled(row, startCol, endCol int, filled func(r, c int) bool) bool {
	for c := startCol; c <= endCol; c++ {
		if !filled(row, c) {
			return false
		}
	}
	return true
}

// fallback runs Auto and keeps its answer, still reporting smart mode.
func fallback(grid models.Grid) Result {
	res := Auto(grid)
	res.Mode = ModeSmart
	return res
}
