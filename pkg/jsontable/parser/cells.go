package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the workbook extensions ExcelSource can read.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// ExcelSource reads sheets, merged regions and metadata from workbooks on disk.
type ExcelSource struct{}

// NewExcelSource returns an excelize-backed ExcelSource.
func NewExcelSource() *ExcelSource {
	return &ExcelSource{}
}

// FileMetadata returns the size and modification time of path.
func (s *ExcelSource) FileMetadata(path string) (models.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.FileInfo{}, tableerr.Wrap(err, tableerr.SourceNotFound, path, "file not found")
		}
		return models.FileInfo{}, err
	}
	if info.IsDir() {
		return models.FileInfo{}, tableerr.New(tableerr.SourceNotFound, path, "path is a directory")
	}
	return models.FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// ReadSheet reads every row of a sheet as text and returns it with the workbook's sheet names.
// A blank sheetName selects the first sheet.
func (s *ExcelSource) ReadSheet(path, sheetName string) (models.Grid, []string, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	sheetName, err = resolveSheet(sheetNames, sheetName)
	if err != nil {
		return nil, sheetNames, err
	}

	grid, err := ExtractCells(f, sheetName)
	if err != nil {
		return nil, sheetNames, err
	}
	return grid, sheetNames, nil
}

// ExtractCells reads the rows of a sheet from an open workbook.
// Numeric cells are rendered as integer text when whole, decimal text otherwise.
func ExtractCells(f *excelize.File, sheetName string) (models.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, sheetError(err, sheetName)
	}

	grid := make(models.Grid, len(rows))
	for rowIdx, row := range rows {
		cells := make([]string, len(row))
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cellValue, 64); err == nil {
				cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if cellType, err := f.GetCellType(sheetName, cellName); err == nil && isNumericCell(cellType) {
					cellValue = formatNumber(cellValue)
				}
			}
			cells[colIdx] = cellValue
		}
		grid[rowIdx] = cells
	}
	return grid, nil
}

// isNumericCell reports whether a cell stores a number. Cells written without
// an explicit type attribute are numbers in OOXML.
func isNumericCell(t excelize.CellType) bool {
	return t == excelize.CellTypeNumber || t == excelize.CellTypeUnset
}

// formatNumber renders a raw numeric value as integer text when it has no
// fractional part, decimal text otherwise.
func formatNumber(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CheckFormat fails UnsupportedFormat unless path has a supported extension.
func CheckFormat(path string) error {
	if !isSupportedFormat(path) {
		return tableerr.New(tableerr.UnsupportedFormat, path, "expected one of %s", strings.Join(SupportedExtensions, ", "))
	}
	return nil
}

func openWorkbook(path string) (*excelize.File, error) {
	if err := CheckFormat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tableerr.Wrap(err, tableerr.SourceNotFound, path, "file not found")
		}
		return nil, tableerr.Wrap(err, tableerr.UnsupportedFormat, path, "cannot open workbook")
	}
	return f, nil
}

func isSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func resolveSheet(sheetNames []string, sheetName string) (string, error) {
	if sheetName == "" {
		if len(sheetNames) == 0 {
			return "", tableerr.New(tableerr.SheetNotFound, sheetName, "workbook has no sheets")
		}
		return sheetNames[0], nil
	}
	for _, name := range sheetNames {
		if name == sheetName {
			return name, nil
		}
	}
	return "", tableerr.New(tableerr.SheetNotFound, sheetName, "available sheets: %s", strings.Join(sheetNames, ", "))
}

func sheetError(err error, sheetName string) error {
	var notExist excelize.ErrSheetNotExist
	if errors.As(err, &notExist) {
		return tableerr.Wrap(err, tableerr.SheetNotFound, sheetName, "sheet does not exist")
	}
	return err
}
