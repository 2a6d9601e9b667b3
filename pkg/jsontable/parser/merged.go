package parser

import (
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/xuri/excelize/v2"
)

// ReadMergedRegions returns the merged cell regions of a sheet.
// A blank sheetName selects the first sheet.
func (s *ExcelSource) ReadMergedRegions(path, sheetName string) ([]models.MergedRegion, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName, err = resolveSheet(f.GetSheetList(), sheetName)
	if err != nil {
		return nil, err
	}
	return ExtractMergedRegions(f, sheetName)
}

// ExtractMergedRegions reads the merged cell regions of a sheet from an open workbook.
// Regions whose bounds cannot be parsed are skipped.
func ExtractMergedRegions(f *excelize.File, sheetName string) ([]models.MergedRegion, error) {
	mergeCells, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, sheetError(err, sheetName)
	}

	regions := make([]models.MergedRegion, 0, len(mergeCells))
	for _, mc := range mergeCells {
		start, err := ParseCellAddress(mc.GetStartAxis())
		if err != nil {
			continue
		}
		end, err := ParseCellAddress(mc.GetEndAxis())
		if err != nil {
			continue
		}
		region := models.MergedRegion{
			MinRow:      min(start.Row, end.Row),
			MaxRow:      max(start.Row, end.Row),
			MinCol:      min(start.Col, end.Col),
			MaxCol:      max(start.Col, end.Col),
			AnchorValue: mc.GetCellValue(),
		}
		if raw, err := f.GetCellValue(sheetName, mc.GetStartAxis(), excelize.Options{RawCellValue: true}); err == nil && raw != "" {
			if cellType, err := f.GetCellType(sheetName, mc.GetStartAxis()); err == nil && isNumericCell(cellType) {
				region.AnchorValue = formatNumber(raw)
			}
		}
		regions = append(regions, region)
	}
	return regions, nil
}
