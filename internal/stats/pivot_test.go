package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pivotSample() Table {
	return Pivot(sample,
		func(r row) string { return r.day },
		func(r row) string { return r.source },
		func(r row) float64 { return r.users },
	)
}

func TestPivotFillsMissingWithZero(t *testing.T) {
	table := pivotSample()

	assert.Equal(t, []string{"2025-09-18", "2025-09-19"}, table.Rows)
	assert.Equal(t, []string{"facebook", "instagram", "strava"}, table.Columns)
	assert.Equal(t, [][]float64{{35, 7, 1}, {16, 8, 0}}, table.Cells)
	assert.Equal(t, []float64{1, 0}, table.Column("strava"))
}

func TestPivotRoundTripPreservesTotal(t *testing.T) {
	table := pivotSample()
	long := Sum(sample, func(r row) float64 { return r.users })

	assert.Equal(t, long, table.Total())
	assert.Equal(t, long, table.Reindex([]string{"strava", "facebook", "instagram"}).Total())
	assert.Equal(t, long, table.OrderColumnsByTotal().Total())
}

func TestPivotSumsDuplicates(t *testing.T) {
	rows := append(append([]row(nil), sample...), row{"2025-09-18", "facebook", 5, 0})
	table := Pivot(rows,
		func(r row) string { return r.day },
		func(r row) string { return r.source },
		func(r row) float64 { return r.users },
	)
	assert.Equal(t, []float64{40, 16}, table.Column("facebook"))
}

func TestOrderColumnsByTotal(t *testing.T) {
	table := pivotSample().OrderColumnsByTotal()

	assert.Equal(t, []string{"facebook", "instagram", "strava"}, table.Columns)
	assert.Equal(t, []float64{51, 15, 1}, table.ColumnTotals())
}

func TestReindexRestrictsToPresentColumns(t *testing.T) {
	table := Table{
		Rows:    []string{"facebook"},
		Columns: []string{"18-24", "25-34", "55+"},
		Cells:   [][]float64{{3, 16, 6}},
	}

	got := table.Reindex([]string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+"})

	assert.Equal(t, []string{"18-24", "25-34", "55+"}, got.Columns)
	assert.Equal(t, [][]float64{{3, 16, 6}}, got.Cells)
	assert.Equal(t, []float64{3, 3}, Table{Rows: []string{"a", "b"}, Columns: []string{"x"}, Cells: [][]float64{{3}, {3}}}.Column("x"))
	assert.Nil(t, table.Column("Under 18"))
}

func TestPivotEmpty(t *testing.T) {
	table := Pivot([]row{},
		func(r row) string { return r.day },
		func(r row) string { return r.source },
		func(r row) float64 { return r.users },
	)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 0.0, table.Total())
}
