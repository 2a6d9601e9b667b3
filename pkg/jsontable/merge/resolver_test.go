package merge

import (
	"testing"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerGrid() models.Grid {
	return models.Grid{
		{"Region", "Sales", "", "Service"},
		{"", "Q1", "Q2", "Total"},
		{"East", "1", "2", "3"},
	}
}

// regions: A1:A2 ("Region") and B1:C1 ("Sales").
func headerRegions() []models.MergedRegion {
	return []models.MergedRegion{
		{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 0, AnchorValue: "Region"},
		{MinRow: 0, MaxRow: 0, MinCol: 1, MaxCol: 2, AnchorValue: "Sales"},
	}
}

func TestParseMode(t *testing.T) {
	for in, expected := range map[string]Mode{
		"":            ModeExpand,
		"expand":      ModeExpand,
		"Ignore":      ModeIgnore,
		"first-value": ModeFirstValue,
		"first_value": ModeFirstValue,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}

	_, err := ParseMode("smear")
	assert.True(t, tableerr.IsKind(err, tableerr.InvalidMergeMode))
}

func TestResolveExpand(t *testing.T) {
	got, err := Resolve(headerGrid(), headerRegions(), ModeExpand)
	require.NoError(t, err)

	assert.Equal(t, models.Grid{
		{"Region", "Sales", "Sales", "Service"},
		{"Region", "Q1", "Q2", "Total"},
		{"East", "1", "2", "3"},
	}, got)
}

func TestResolveExpandIsIdempotent(t *testing.T) {
	once, err := Resolve(headerGrid(), headerRegions(), ModeExpand)
	require.NoError(t, err)
	twice, err := Resolve(once, headerRegions(), ModeExpand)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	grid := headerGrid()
	_, err := Resolve(grid, headerRegions(), ModeExpand)
	require.NoError(t, err)
	assert.Equal(t, headerGrid(), grid)
}

func TestResolveIgnoreAndFirstValueMatch(t *testing.T) {
	grid := models.Grid{
		{"A", "stale"},
		{"stale", "stale"},
	}
	regions := []models.MergedRegion{{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 1, AnchorValue: "A"}}

	ignored, err := Resolve(grid, regions, ModeIgnore)
	require.NoError(t, err)
	first, err := Resolve(grid, regions, ModeFirstValue)
	require.NoError(t, err)

	assert.Equal(t, models.Grid{{"A", ""}, {"", ""}}, ignored)
	assert.Equal(t, ignored, first)
}

func TestResolveOverlapLaterWins(t *testing.T) {
	grid := models.Grid{{"", "", ""}}
	regions := []models.MergedRegion{
		{MinRow: 0, MaxRow: 0, MinCol: 0, MaxCol: 1, AnchorValue: "first"},
		{MinRow: 0, MaxRow: 0, MinCol: 1, MaxCol: 2, AnchorValue: "second"},
	}
	got, err := Resolve(grid, regions, ModeExpand)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"first", "second", "second"}}, got)
}

func TestResolvePadsShortRowsAndClipsRows(t *testing.T) {
	grid := models.Grid{{"x"}, {}}
	regions := []models.MergedRegion{{MinRow: 0, MaxRow: 5, MinCol: 0, MaxCol: 2, AnchorValue: "x"}}

	got, err := Resolve(grid, regions, ModeExpand)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"x", "x", "x"}, {"x", "x", "x"}}, got)
}

func TestResolveRejectsUnknownMode(t *testing.T) {
	_, err := Resolve(headerGrid(), nil, Mode("smear"))
	assert.True(t, tableerr.IsKind(err, tableerr.InvalidMergeMode))
}

func TestResolveInSelection(t *testing.T) {
	// select B1:C3; Region (A1:A2) is dropped, Sales (B1:C1) is translated.
	sel := models.RangeSelection{StartRow: 0, EndRow: 2, StartCol: 1, EndCol: 2}

	got, err := ResolveInSelection(headerGrid(), headerRegions(), ModeExpand, sel)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{
		{"Sales", "Sales"},
		{"Q1", "Q2"},
		{"1", "2"},
	}, got)
}

func TestResolveInSelectionClipsAnchorAway(t *testing.T) {
	grid := models.Grid{
		{"Big", "", ""},
		{"", "", ""},
	}
	regions := []models.MergedRegion{{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 2, AnchorValue: "Big"}}
	sel := models.RangeSelection{StartRow: 1, EndRow: 1, StartCol: 1, EndCol: 2}

	expanded, err := ResolveInSelection(grid, regions, ModeExpand, sel)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"Big", "Big"}}, expanded)

	ignored, err := ResolveInSelection(grid, regions, ModeIgnore, sel)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"", ""}}, ignored)
}

func TestResolveWithHeader(t *testing.T) {
	header, data, err := ResolveWithHeader(headerGrid(), headerRegions(), ModeExpand, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Region", "Sales", "Sales", "Service"}, header)
	// the vertical merge crossing header and data fills the data row too
	assert.Equal(t, "Region", data[0][0])
	assert.Len(t, data, 2)

	_, _, err = ResolveWithHeader(headerGrid(), headerRegions(), ModeExpand, 3)
	assert.True(t, tableerr.IsKind(err, tableerr.HeaderRowOutOfRange))
}
