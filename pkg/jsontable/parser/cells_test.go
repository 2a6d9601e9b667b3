package parser

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook built by fill into a temp directory.
func writeWorkbook(t *testing.T, name string, fill func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	fill(f)

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, "test.xlsx", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Header1")
		f.SetCellValue("Sheet1", "B1", "Header2")
		f.SetCellValue("Sheet1", "A2", 100)
		f.SetCellValue("Sheet1", "B2", 200.5)
		f.SetCellValue("Sheet1", "A3", "Text")
		f.SetCellValue("Sheet1", "C3", 3.0)
		f.SetCellStr("Sheet1", "B3", "007")
	})

	src := NewExcelSource()
	grid, sheets, err := src.ReadSheet(path, "")
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}

	if !reflect.DeepEqual(sheets, []string{"Sheet1"}) {
		t.Errorf("Expected sheets [Sheet1], got %v", sheets)
	}

	expected := models.Grid{
		{"Header1", "Header2"},
		{"100", "200.5"},
		{"Text", "007", "3"},
	}
	if !reflect.DeepEqual(grid, expected) {
		t.Errorf("Expected %v, got %v", expected, grid)
	}
}

func TestReadSheetBySheetName(t *testing.T) {
	path := writeWorkbook(t, "named.xlsx", func(f *excelize.File) {
		f.NewSheet("Data")
		f.SetCellValue("Data", "B2", "x")
	})

	src := NewExcelSource()
	grid, _, err := src.ReadSheet(path, "Data")
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}
	if grid.Cell(1, 1) != "x" {
		t.Errorf("Expected x at B2, got %q", grid.Cell(1, 1))
	}

	_, _, err = src.ReadSheet(path, "Missing")
	if !errors.Is(err, tableerr.ErrSheetNotFound) {
		t.Errorf("Expected SheetNotFound, got %v", err)
	}
}

func TestReadSheetSourceErrors(t *testing.T) {
	src := NewExcelSource()

	_, _, err := src.ReadSheet(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	if !errors.Is(err, tableerr.ErrSourceNotFound) {
		t.Errorf("Expected SourceNotFound, got %v", err)
	}

	_, _, err = src.ReadSheet("data.csv", "")
	if !errors.Is(err, tableerr.ErrUnsupportedFormat) {
		t.Errorf("Expected UnsupportedFormat, got %v", err)
	}

	_, err = src.FileMetadata(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, tableerr.ErrSourceNotFound) {
		t.Errorf("Expected SourceNotFound from FileMetadata, got %v", err)
	}
}

func TestReadMergedRegions(t *testing.T) {
	path := writeWorkbook(t, "merged.xlsx", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Sales")
		f.MergeCell("Sheet1", "A1", "B1")
		f.SetCellValue("Sheet1", "C2", 42)
		f.MergeCell("Sheet1", "C2", "C4")
	})

	regions, err := NewExcelSource().ReadMergedRegions(path, "")
	if err != nil {
		t.Fatalf("ReadMergedRegions failed: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(regions))
	}

	byAnchor := map[string]models.MergedRegion{}
	for _, r := range regions {
		byAnchor[r.AnchorValue] = r
	}
	if r := byAnchor["Sales"]; r.MinRow != 0 || r.MaxRow != 0 || r.MinCol != 0 || r.MaxCol != 1 {
		t.Errorf("Unexpected Sales region %+v", r)
	}
	if r, ok := byAnchor["42"]; !ok || r.MinRow != 1 || r.MaxRow != 3 || r.MinCol != 2 || r.MaxCol != 2 {
		t.Errorf("Unexpected numeric region %+v (found %v)", r, ok)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123", "123"},
		{"123.0", "123"},
		{"123.45", "123.45"},
		{"-100", "-100"},
		{"1E-3", "0.001"},
		{"hello", "hello"},
	}

	for _, tt := range tests {
		result := formatNumber(tt.input)
		if result != tt.expected {
			t.Errorf("formatNumber(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestReadSheetData(t *testing.T) {
	path := writeWorkbook(t, "all.xlsx", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Title")
		f.MergeCell("Sheet1", "A1", "B1")
		f.SetSheetRow("Sheet1", "A2", &[]any{"id", 7})
		f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: "Sheet1!$A$2:$B$2",
			Scope:    "Sheet1",
		})
	})

	data, err := NewExcelSource().ReadSheetData(path, "")
	if err != nil {
		t.Fatalf("ReadSheetData failed: %v", err)
	}
	if data.Sheet != "Sheet1" {
		t.Errorf("Expected Sheet1, got %q", data.Sheet)
	}
	expected := models.Grid{{"Title"}, {"id", "7"}}
	if !reflect.DeepEqual(data.Grid, expected) {
		t.Errorf("Expected %v, got %v", expected, data.Grid)
	}
	if len(data.Regions) != 1 || data.Regions[0].MaxCol != 1 {
		t.Errorf("Unexpected regions %+v", data.Regions)
	}
	area := models.RangeSelection{StartRow: 1, EndRow: 1, StartCol: 0, EndCol: 1}
	if data.PrintArea == nil || *data.PrintArea != area {
		t.Errorf("Expected print area %+v, got %+v", area, data.PrintArea)
	}

	_, err = NewExcelSource().ReadSheetData(path, "Missing")
	if !errors.Is(err, tableerr.ErrSheetNotFound) {
		t.Errorf("Expected SheetNotFound, got %v", err)
	}
}
