package jsontable

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sasakama-code/jsontable-go/internal/metrics"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/cache"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeSource serves one in-memory sheet for any .xlsx path.
type fakeSource struct {
	grid      models.Grid
	regions   []models.MergedRegion
	printArea *models.RangeSelection
	modTime   time.Time
	reads     int
}

func (s *fakeSource) FileMetadata(path string) (models.FileInfo, error) {
	if filepath.Base(path) == "missing.xlsx" {
		return models.FileInfo{}, tableerr.New(tableerr.SourceNotFound, path, "file not found")
	}
	return models.FileInfo{Size: 1, ModTime: s.modTime}, nil
}

func (s *fakeSource) ReadSheet(path, sheetName string) (models.Grid, []string, error) {
	s.reads++
	if sheetName != "" && sheetName != "Data" {
		return nil, []string{"Data"}, tableerr.New(tableerr.SheetNotFound, sheetName, "no such sheet")
	}
	return s.grid.Clone(), []string{"Data"}, nil
}

func (s *fakeSource) ReadMergedRegions(path, sheetName string) ([]models.MergedRegion, error) {
	return s.regions, nil
}

func (s *fakeSource) ReadPrintArea(path, sheetName string) (models.RangeSelection, bool, error) {
	if s.printArea == nil {
		return models.RangeSelection{}, false, nil
	}
	return *s.printArea, true, nil
}

func metaGrid() models.Grid {
	return models.Grid{
		{"Meta", "x"},
		{"", ""},
		{"Name", "Score"},
		{"A", "10"},
		{"B", "20"},
	}
}

func TestExtractSkipRowsWithHeaderRow(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: metaGrid()}))

	got, err := loader.Extract("book.xlsx", Options{SkipRows: "0,1"}.WithHeaderRow(2))
	require.NoError(t, err)

	assert.True(t, got.HasHeader)
	assert.Equal(t, []string{"Name", "Score"}, got.Headers)
	assert.Equal(t, models.Grid{{"A", "10"}, {"B", "20"}}, got.Data)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 2, got.Cols)
	assert.Equal(t, "Data", got.Sheet)
	assert.Equal(t, "0,1", got.SkipRows)
	assert.Equal(t, 2, *got.HeaderRow)
	assert.Equal(t, "expand", got.MergeMode)
}

func TestExtractWithoutHeader(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: models.Grid{{"a"}, {"b", "c"}}}))

	got, err := loader.Extract("book.xlsx", Options{})
	require.NoError(t, err)

	assert.False(t, got.HasHeader)
	assert.Nil(t, got.Headers)
	assert.Equal(t, models.Grid{{"a", ""}, {"b", "c"}}, got.Data)
}

func TestExtractRangeRelativeToSkippedGrid(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: metaGrid()}))

	got, err := loader.Extract("book.xlsx", Options{SkipRows: "0-1", Range: "A2:B3"})
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"A", "10"}, {"B", "20"}}, got.Data)
	assert.Equal(t, "A2:B3", got.Range)
}

func TestExtractHeaderInsideRange(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: metaGrid()}))

	got, err := loader.Extract("book.xlsx", Options{Range: "A3:B5"}.WithHeaderRow(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, got.Headers)
	assert.Equal(t, 2, got.Rows)

	_, err = loader.Extract("book.xlsx", Options{Range: "A4:B5"}.WithHeaderRow(2))
	assert.True(t, tableerr.IsKind(err, tableerr.HeaderRowOutOfRange))
}

func TestExtractHeaderErrors(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: metaGrid()}))

	_, err := loader.Extract("book.xlsx", Options{SkipRows: "2"}.WithHeaderRow(2))
	assert.True(t, tableerr.IsKind(err, tableerr.HeaderRowOutOfRange))

	_, err = loader.Extract("book.xlsx", Options{}.WithHeaderRow(9))
	assert.True(t, tableerr.IsKind(err, tableerr.HeaderRowOutOfRange))

	_, err = loader.Extract("book.xlsx", Options{HeaderRows: 6}.WithHeaderRow(0))
	assert.True(t, tableerr.IsKind(err, tableerr.HeaderRowOutOfRange))
}

func TestExtractMultiRowHeaderWithMerges(t *testing.T) {
	src := &fakeSource{
		grid: models.Grid{
			{"Region", "Sales", "", "Service"},
			{"", "Q1", "Q2", "Total"},
			{"East", "1", "2", "3"},
		},
		regions: []models.MergedRegion{
			{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 0, AnchorValue: "Region"},
			{MinRow: 0, MaxRow: 0, MinCol: 1, MaxCol: 2, AnchorValue: "Sales"},
		},
	}
	loader := NewLoader(WithSource(src))

	got, err := loader.Extract("book.xlsx", Options{HeaderRows: 2}.WithHeaderRow(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales_Q1", "Sales_Q2", "Service_Total"}, got.Headers)
	assert.Equal(t, models.Grid{{"East", "1", "2", "3"}}, got.Data)
	assert.Equal(t, 2, got.HeaderRows)

	got, err = loader.Extract("book.xlsx", Options{MergeMode: "ignore", HeaderRows: 2, HeaderSeparator: "."}.WithHeaderRow(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales.Q1", "Sales.Q2", "Service.Total"}, got.Headers)
}

func TestExtractRangeResolvesMergesInSelection(t *testing.T) {
	src := &fakeSource{
		grid: models.Grid{
			{"Title", "", ""},
			{"", "", ""},
		},
		regions: []models.MergedRegion{{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 2, AnchorValue: "Title"}},
	}
	loader := NewLoader(WithSource(src))

	got, err := loader.Extract("book.xlsx", Options{Range: "B2:C2"})
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"Title", "Title"}}, got.Data)

	got, err = loader.Extract("book.xlsx", Options{Range: "B2:C2", MergeMode: "first-value"})
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"", ""}}, got.Data)
}

func TestExtractDetection(t *testing.T) {
	src := &fakeSource{grid: models.Grid{
		{},
		{"", "Name", "Qty"},
		{"", "apple", "3"},
		{"", "pear", "5"},
	}}
	loader := NewLoader(WithSource(src))

	got, err := loader.Extract("book.xlsx", Options{DetectMode: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "B2:C4", got.DetectedRange)
	assert.False(t, got.HasHeader)
	assert.Len(t, got.Data, 3)

	got, err = loader.Extract("book.xlsx", Options{DetectMode: "smart", AutoHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Qty"}, got.Headers)
	assert.Equal(t, models.Grid{{"apple", "3"}, {"pear", "5"}}, got.Data)

	got, err = loader.Extract("book.xlsx", Options{DetectMode: "manual", DetectHint: "B3:C4"})
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"apple", "3"}, {"pear", "5"}}, got.Data)

	// an explicit range wins over detection
	got, err = loader.Extract("book.xlsx", Options{DetectMode: "auto", Range: "B2:B2"})
	require.NoError(t, err)
	assert.Empty(t, got.DetectedRange)
	assert.Equal(t, models.Grid{{"Name"}}, got.Data)
}

func TestExtractPrintArea(t *testing.T) {
	src := &fakeSource{
		grid:      metaGrid(),
		printArea: &models.RangeSelection{StartRow: 2, EndRow: 99, StartCol: 0, EndCol: 1},
	}
	loader := NewLoader(WithSource(src))

	got, err := loader.Extract("book.xlsx", Options{UsePrintArea: true}.WithHeaderRow(2))
	require.NoError(t, err)
	assert.Equal(t, "A3:B5", got.Range)
	assert.Equal(t, []string{"Name", "Score"}, got.Headers)
	assert.Equal(t, 2, got.Rows)
}

func TestExtractValidatesBeforeReading(t *testing.T) {
	src := &fakeSource{grid: metaGrid()}
	loader := NewLoader(WithSource(src))

	tests := []struct {
		opts Options
		kind tableerr.Kind
	}{
		{Options{MergeMode: "smear"}, tableerr.InvalidMergeMode},
		{Options{DetectMode: "fuzzy"}, tableerr.InvalidDetectMode},
		{Options{Range: "C3:A1"}, tableerr.InvertedRange},
		{Options{SkipRows: "-1"}, tableerr.MalformedSkipSpec},
		{Options{}.WithHeaderRow(-1), tableerr.HeaderRowOutOfRange},
	}
	for _, tt := range tests {
		_, err := loader.Extract("book.xlsx", tt.opts)
		assert.True(t, tableerr.IsKind(err, tt.kind), "%+v: %v", tt.opts, err)
	}
	assert.Zero(t, src.reads)
}

func TestExtractSourceErrors(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: metaGrid()}))

	_, err := loader.Extract("missing.xlsx", Options{})
	assert.ErrorIs(t, err, ErrFileNotFound)
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "metadata", extractionErr.Component)

	_, err = loader.Extract("book.csv", Options{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = loader.Extract("book.xlsx", Options{Sheet: "Other"})
	assert.True(t, tableerr.IsKind(err, tableerr.SheetNotFound))

	_, err = loader.Extract("book.xlsx", Options{SkipRows: "7"})
	assert.True(t, tableerr.IsKind(err, tableerr.SkipRowOutOfRange))

	_, err = loader.Extract("book.xlsx", Options{Range: "A1:Z9"})
	assert.True(t, tableerr.IsKind(err, tableerr.RangeExceedsData))
}

func TestExtractUsesCache(t *testing.T) {
	src := &fakeSource{grid: metaGrid(), modTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := metrics.New()
	loader := NewLoader(
		WithSource(src),
		WithCache(cache.New[models.TableData](cache.NewMemoryStorage(), cache.WithMetrics(m))),
		WithMetrics(m),
	)
	opts := Options{SkipRows: "0,1"}.WithHeaderRow(2)

	first, err := loader.Extract("book.xlsx", opts)
	require.NoError(t, err)
	second, err := loader.Extract("book.xlsx", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.reads)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues(metrics.StatusCached)))

	// a newer source invalidates even with identical content
	src.modTime = src.modTime.Add(time.Minute)
	_, err = loader.Extract("book.xlsx", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, src.reads)

	opts.NoCache = true
	_, err = loader.Extract("book.xlsx", opts)
	require.NoError(t, err)
	assert.Equal(t, 3, src.reads)
}

func TestExtractWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Report")
	f.SetCellValue("Report", "A1", "Quarterly report")
	f.MergeCell("Report", "A1", "C1")
	f.SetSheetRow("Report", "A3", &[]any{"Item", "Qty", "Price"})
	f.SetSheetRow("Report", "A4", &[]any{"apple", 3, 1.25})
	f.SetSheetRow("Report", "A5", &[]any{"pear", 5, 0.8})
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := Extract(path, Options{Sheet: "Report", SkipRows: "0-1"}.WithHeaderRow(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "Qty", "Price"}, got.Headers)
	assert.Equal(t, models.Grid{{"apple", "3", "1.25"}, {"pear", "5", "0.8"}}, got.Data)

	// ignore keeps the expanded title row from joining the block
	got, err = Extract(path, Options{DetectMode: "auto", AutoHeader: true, MergeMode: "ignore"})
	require.NoError(t, err)
	assert.Equal(t, "A3:C5", got.DetectedRange)
	assert.Equal(t, []string{"Item", "Qty", "Price"}, got.Headers)

	_, err = Extract(filepath.Join(t.TempDir(), "absent.xlsx"), Options{})
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestExtractDetectionOnEmptyRowsAfterSkip(t *testing.T) {
	loader := NewLoader(WithSource(&fakeSource{grid: models.Grid{{"Title", "x"}, {}}}))

	for _, mode := range []string{"auto", "smart"} {
		got, err := loader.Extract("book.xlsx", Options{SkipRows: "0", DetectMode: mode})
		require.NoError(t, err, mode)
		assert.Equal(t, "A1:A1", got.DetectedRange, mode)
		assert.Empty(t, got.Data, mode)
		assert.False(t, got.HasHeader, mode)
	}
}

// sheetDataSource serves the whole sheet from one call.
type sheetDataSource struct {
	fakeSource
	calls int
}

func (s *sheetDataSource) ReadSheetData(path, sheetName string) (models.SheetData, error) {
	s.calls++
	if sheetName != "" && sheetName != "Data" {
		return models.SheetData{}, tableerr.New(tableerr.SheetNotFound, sheetName, "no such sheet")
	}
	return models.SheetData{
		Sheet:      "Data",
		SheetNames: []string{"Data"},
		Grid:       s.grid.Clone(),
		Regions:    s.regions,
		PrintArea:  s.printArea,
	}, nil
}

func TestExtractReadsSheetDataOnce(t *testing.T) {
	src := &sheetDataSource{fakeSource: fakeSource{
		grid:      metaGrid(),
		printArea: &models.RangeSelection{StartRow: 2, EndRow: 9, StartCol: 0, EndCol: 1},
	}}
	loader := NewLoader(WithSource(src))

	got, err := loader.Extract("book.xlsx", Options{UsePrintArea: true}.WithHeaderRow(2))
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 0, src.reads)
	assert.Equal(t, "A3:B5", got.Range)
	assert.Equal(t, []string{"Name", "Score"}, got.Headers)

	_, err = loader.Extract("book.xlsx", Options{Sheet: "Other"})
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "sheet", extractionErr.Component)
	assert.True(t, tableerr.IsKind(err, tableerr.SheetNotFound))
}
