package parser

import (
	"strings"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/xuri/excelize/v2"
)

// ReadPrintArea returns the first print area defined for a sheet.
// The boolean is false when the sheet has none.
func (s *ExcelSource) ReadPrintArea(path, sheetName string) (models.RangeSelection, bool, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return models.RangeSelection{}, false, err
	}
	defer f.Close()

	sheetName, err = resolveSheet(f.GetSheetList(), sheetName)
	if err != nil {
		return models.RangeSelection{}, false, err
	}

	areas := ExtractPrintAreas(f)[sheetName]
	if len(areas) == 0 {
		return models.RangeSelection{}, false, nil
	}
	return areas[0], true, nil
}

// ExtractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(f *excelize.File) map[string][]models.RangeSelection {
	result := make(map[string][]models.RangeSelection)

	sheetNames := f.GetSheetList()
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" && dn.Scope != "" && dn.Scope != "Workbook" {
			sheetName = dn.Scope
		}
		if sheetName == "" && len(sheetNames) > 0 {
			sheetName = sheetNames[0]
		}
		if len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10, comma separated.
func parsePrintAreaReference(ref string) (string, []models.RangeSelection) {
	var areas []models.RangeSelection

	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := strings.Trim(part[:idx], "'")
			if sheetName == "" {
				sheetName = sheet
			}
			rangeStr = part[idx+1:]
		}

		sel, err := ParseRange(strings.ReplaceAll(rangeStr, "$", ""))
		if err == nil {
			areas = append(areas, sel)
		}
	}

	return sheetName, areas
}
