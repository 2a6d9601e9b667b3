package jsontable

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/sasakama-code/jsontable-go/internal/logging"
	"github.com/sasakama-code/jsontable-go/internal/metrics"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/cache"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/detect"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/gridview"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/header"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/merge"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/parser"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"go.uber.org/zap"
)

// SheetSource reads raw sheet contents. parser.ExcelSource is the default.
type SheetSource interface {
	FileMetadata(path string) (models.FileInfo, error)
	ReadSheet(path, sheetName string) (models.Grid, []string, error)
	ReadMergedRegions(path, sheetName string) ([]models.MergedRegion, error)
}

// PrintAreaSource is implemented by sources that know sheet print areas.
type PrintAreaSource interface {
	ReadPrintArea(path, sheetName string) (models.RangeSelection, bool, error)
}

// SheetDataSource is implemented by sources that read cells, merged regions
// and the print area of a sheet in one pass.
type SheetDataSource interface {
	ReadSheetData(path, sheetName string) (models.SheetData, error)
}

// Loader runs the extraction pipeline against a sheet source, with an
// optional result cache.
type Loader struct {
	source   SheetSource
	cache    *cache.Cache[models.TableData]
	logger   *zap.Logger
	metrics  *metrics.Metrics
	defaults Options
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSource replaces the excelize-backed sheet source.
func WithSource(s SheetSource) LoaderOption {
	return func(l *Loader) { l.source = s }
}

// WithCache enables result caching.
func WithCache(c *cache.Cache[models.TableData]) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics records extraction outcomes.
func WithMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithDefaults supplies values for options left blank per call.
func WithDefaults(d Options) LoaderOption {
	return func(l *Loader) { l.defaults = d }
}

// NewLoader creates a Loader. Without options it reads workbooks with
// excelize and caches nothing.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{defaults: DefaultOptions()}
	for _, opt := range opts {
		opt(l)
	}
	if l.source == nil {
		l.source = parser.NewExcelSource()
	}
	l.logger = logging.OrNop(l.logger)
	return l
}

// Extract extracts one table from the workbook at path using a default Loader.
func Extract(path string, opts Options) (*models.TableData, error) {
	return NewLoader().Extract(path, opts)
}

// Extract extracts one table from the workbook at path.
func (l *Loader) Extract(path string, opts Options) (*models.TableData, error) {
	started := time.Now()
	table, cached, err := l.extract(path, opts.withDefaults(l.defaults))
	switch {
	case err != nil:
		l.metrics.ObserveExtraction(metrics.StatusFailure, started, 0)
		l.logger.Debug("extraction failed", zap.String("path", path), zap.Error(err))
	case cached:
		l.metrics.ObserveExtraction(metrics.StatusCached, started, table.Rows)
	default:
		l.metrics.ObserveExtraction(metrics.StatusSuccess, started, table.Rows)
	}
	return table, err
}

// plan holds the validated options of one call.
type plan struct {
	opts       Options
	mergeMode  merge.Mode
	detectMode detect.Mode
	skip       []int
	sel        *models.RangeSelection
}

func newPlan(opts Options) (plan, error) {
	p := plan{opts: opts}
	var err error
	if p.mergeMode, err = merge.ParseMode(opts.MergeMode); err != nil {
		return p, err
	}
	if p.detectMode, err = detect.ParseMode(opts.DetectMode); err != nil {
		return p, err
	}
	if opts.HeaderRow != nil && *opts.HeaderRow < 0 {
		return p, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(*opts.HeaderRow), "header row must be non-negative")
	}
	if opts.HeaderRows < 0 {
		return p, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(opts.HeaderRows), "header row count must be positive")
	}
	if opts.SkipRows != "" {
		if p.skip, err = parser.ParseSkipRows(opts.SkipRows); err != nil {
			return p, err
		}
	}
	if opts.Range != "" {
		sel, err := parser.ParseRange(opts.Range)
		if err != nil {
			return p, err
		}
		p.sel = &sel
	}
	return p, nil
}

// mergeInSelection reports whether merges resolve on the selected rectangle
// only. Skipped rows or a header row need the full grid resolved first.
func (p plan) mergeInSelection() bool {
	return p.sel != nil && len(p.skip) == 0 && p.opts.HeaderRow == nil
}

func (l *Loader) extract(path string, opts Options) (*models.TableData, bool, error) {
	p, err := newPlan(opts)
	if err != nil {
		return nil, false, err
	}

	info, err := l.source.FileMetadata(path)
	if err != nil {
		return nil, false, NewExtractionError(path, opts.Sheet, "metadata", err)
	}
	if err := parser.CheckFormat(path); err != nil {
		return nil, false, err
	}

	cacheKey := path
	if abs, err := filepath.Abs(path); err == nil {
		cacheKey = abs
	}
	useCache := l.cache != nil && !opts.NoCache
	if useCache {
		if table, ok := l.cache.Get(cacheKey, opts, info.ModTime); ok {
			l.logger.Debug("cache hit", zap.String("path", path))
			return &table, true, nil
		}
	}

	table, err := l.load(path, p)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if err := l.cache.Put(cacheKey, opts, info.ModTime, *table); err != nil {
			l.logger.Warn("cache write skipped", zap.String("path", path), zap.Error(err))
		}
	}
	return table, false, nil
}

func (l *Loader) load(path string, p plan) (*models.TableData, error) {
	opts := p.opts

	data, err := l.readSheet(path, opts.Sheet, opts.UsePrintArea)
	if err != nil {
		return nil, err
	}
	grid, sheet, regions := data.Grid, data.Sheet, data.Regions
	l.logger.Debug("sheet read", zap.String("path", path), zap.String("sheet", sheet),
		zap.Int("rows", grid.Rows()), zap.Int("cols", grid.Cols()),
		zap.Int("merged_regions", len(regions)))

	if !p.mergeInSelection() {
		if grid, err = merge.Resolve(grid, regions, p.mergeMode); err != nil {
			return nil, err
		}
	}
	if grid, err = parser.ApplySkipRows(grid, p.skip); err != nil {
		return nil, err
	}

	headerAt := -1
	if opts.HeaderRow != nil {
		if headerAt, err = parser.AdjustHeaderRow(*opts.HeaderRow, p.skip); err != nil {
			return nil, err
		}
	}

	table := &building{TableData: models.TableData{
		Sheet:      sheet,
		SkipRows:   opts.SkipRows,
		HeaderRow:  opts.HeaderRow,
		MergeMode:  string(p.mergeMode),
		DetectMode: string(p.detectMode),
	}}

	view, sel, err := l.selectRange(grid, regions, data.PrintArea, p, table)
	if err != nil {
		return nil, err
	}

	if sel != nil && headerAt >= 0 {
		if headerAt < sel.StartRow || headerAt > sel.EndRow {
			return nil, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(*opts.HeaderRow),
				"header row outside range %s", parser.FormatRange(*sel))
		}
		headerAt -= sel.StartRow
	}
	if table.autoHeader {
		headerAt = 0
	}

	if headerAt < 0 {
		table.Data = nonNil(view.Grid)
		table.Rows = len(table.Data)
		table.Cols = view.Cols
		return &table.TableData, nil
	}

	count := opts.HeaderCount()
	if headerAt+count > view.Rows {
		return nil, tableerr.New(tableerr.HeaderRowOutOfRange, strconv.Itoa(headerAt),
			"%d header rows past %d rows", count, view.Rows)
	}
	headerRows := view.Grid[headerAt : headerAt+count]
	if count == 1 {
		table.Headers = header.Single(headerRows[0])
	} else {
		table.Headers = header.Merge(headerRows, opts.HeaderSeparator)
	}
	table.HasHeader = true
	table.HeaderRows = count
	table.Data = nonNil(view.Grid[headerAt+count:])
	table.Rows = len(table.Data)
	table.Cols = view.Cols
	return &table.TableData, nil
}

// building carries pipeline-only state alongside the result.
type building struct {
	models.TableData
	autoHeader bool
}

// selectRange narrows grid to the explicit range, the print area or the
// detected block, in that order of preference. It returns the selection
// applied, or nil when the whole grid is kept.
func (l *Loader) selectRange(grid models.Grid, regions []models.MergedRegion, printArea *models.RangeSelection, p plan, table *building) (gridview.View, *models.RangeSelection, error) {
	if p.sel != nil {
		sel := *p.sel
		table.Range = parser.FormatRange(sel)
		if p.mergeInSelection() {
			if err := parser.ValidateAgainstData(sel, grid.Rows(), grid.Cols()); err != nil {
				return gridview.View{}, nil, err
			}
			out, err := merge.ResolveInSelection(grid, regions, p.mergeMode, sel)
			if err != nil {
				return gridview.View{}, nil, err
			}
			return gridview.View{Grid: out, Rows: sel.Rows(), Cols: sel.Cols()}, &sel, nil
		}
		view, err := gridview.Extract(grid, sel)
		return view, &sel, err
	}

	if p.opts.UsePrintArea && printArea != nil {
		sel := clipToData(*printArea, grid)
		table.Range = parser.FormatRange(sel)
		view, err := gridview.Extract(grid, sel)
		return view, &sel, err
	}

	if p.detectMode != detect.ModeNone {
		res, err := detect.Detect(grid, p.detectMode, p.opts.DetectHint)
		if err != nil {
			return gridview.View{}, nil, err
		}
		table.DetectedRange = res.Range
		l.logger.Debug("range detected", zap.String("mode", string(res.Mode)),
			zap.String("range", res.Range), zap.Bool("found", res.Found()))
		if grid.Rows() == 0 || grid.Cols() == 0 {
			return gridview.New(models.Grid{}), nil, nil
		}
		table.autoHeader = p.opts.AutoHeader && p.opts.HeaderRow == nil &&
			res.Found() && res.Block.LooksLikeHeader
		sel := res.Selection
		view, err := gridview.Extract(grid, sel)
		return view, &sel, err
	}

	if grid.Rows() == 0 || grid.Cols() == 0 {
		return gridview.New(models.Grid{}), nil, nil
	}
	full := models.RangeSelection{EndRow: grid.Rows() - 1, EndCol: grid.Cols() - 1}
	view, err := gridview.Extract(grid, full)
	return view, nil, err
}

// readSheet reads the sheet in one pass when the source supports it.
func (l *Loader) readSheet(path, sheetName string, withPrintArea bool) (models.SheetData, error) {
	if src, ok := l.source.(SheetDataSource); ok {
		data, err := src.ReadSheetData(path, sheetName)
		if err != nil {
			return data, NewExtractionError(path, sheetName, "sheet", err)
		}
		return data, nil
	}

	grid, sheetNames, err := l.source.ReadSheet(path, sheetName)
	if err != nil {
		return models.SheetData{}, NewExtractionError(path, sheetName, "cells", err)
	}
	data := models.SheetData{Sheet: sheetName, SheetNames: sheetNames, Grid: grid}
	if data.Sheet == "" && len(sheetNames) > 0 {
		data.Sheet = sheetNames[0]
	}
	if data.Regions, err = l.source.ReadMergedRegions(path, data.Sheet); err != nil {
		return data, NewExtractionError(path, data.Sheet, "merged_cells", err)
	}
	if src, ok := l.source.(PrintAreaSource); ok && withPrintArea {
		sel, found, err := src.ReadPrintArea(path, data.Sheet)
		if err != nil {
			return data, NewExtractionError(path, data.Sheet, "print_area", err)
		}
		if found {
			data.PrintArea = &sel
		}
	}
	return data, nil
}

// clipToData trims a print area to the data in grid.
func clipToData(sel models.RangeSelection, grid models.Grid) models.RangeSelection {
	if sel.StartRow < grid.Rows() && sel.StartCol < grid.Cols() {
		sel.EndRow = min(sel.EndRow, grid.Rows()-1)
		sel.EndCol = min(sel.EndCol, grid.Cols()-1)
	}
	return sel
}

func nonNil(g models.Grid) models.Grid {
	if g == nil {
		return models.Grid{}
	}
	return g
}
