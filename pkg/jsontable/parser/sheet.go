package parser

import (
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
)

// ReadSheetData opens the workbook once and reads a sheet's cells, merged
// regions and print area. A blank sheetName selects the first sheet.
func (s *ExcelSource) ReadSheetData(path, sheetName string) (models.SheetData, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return models.SheetData{}, err
	}
	defer f.Close()

	data := models.SheetData{SheetNames: f.GetSheetList()}
	if data.Sheet, err = resolveSheet(data.SheetNames, sheetName); err != nil {
		return data, err
	}
	if data.Grid, err = ExtractCells(f, data.Sheet); err != nil {
		return data, err
	}
	if data.Regions, err = ExtractMergedRegions(f, data.Sheet); err != nil {
		return data, err
	}
	if areas := ExtractPrintAreas(f)[data.Sheet]; len(areas) > 0 {
		area := areas[0]
		data.PrintArea = &area
	}
	return data, nil
}
