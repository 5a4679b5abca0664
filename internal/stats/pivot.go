package stats

import (
	"sort"

	"github.com/samber/lo"
)

// Table is a wide-format pivot: Cells[r][c] belongs to Rows[r] and Columns[c].
type Table struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Cells   [][]float64 `json:"cells"`
}

// Pivot reshapes long rows into a Table. Row and column labels are sorted
// lexically, duplicate (row, column) pairs are summed and missing pairs are 0.
func Pivot[T any](rows []T, rowKey, colKey func(T) string, val func(T) float64) Table {
	rowLabels := lo.Uniq(lo.Map(rows, func(r T, _ int) string { return rowKey(r) }))
	colLabels := lo.Uniq(lo.Map(rows, func(r T, _ int) string { return colKey(r) }))
	sort.Strings(rowLabels)
	sort.Strings(colLabels)

	rowIdx := indexOf(rowLabels)
	colIdx := indexOf(colLabels)

	cells := make([][]float64, len(rowLabels))
	for i := range cells {
		cells[i] = make([]float64, len(colLabels))
	}
	for _, r := range rows {
		cells[rowIdx[rowKey(r)]][colIdx[colKey(r)]] += val(r)
	}
	return Table{Rows: rowLabels, Columns: colLabels, Cells: cells}
}

// Total sums every cell.
func (t Table) Total() float64 {
	var sum float64
	for _, row := range t.Cells {
		sum += lo.Sum(row)
	}
	return sum
}

// ColumnTotals sums each column.
func (t Table) ColumnTotals() []float64 {
	totals := make([]float64, len(t.Columns))
	for _, row := range t.Cells {
		for c, v := range row {
			totals[c] += v
		}
	}
	return totals
}

// Column returns a copy of the named column, or nil if absent.
func (t Table) Column(name string) []float64 {
	c := lo.IndexOf(t.Columns, name)
	if c < 0 {
		return nil
	}
	return lo.Map(t.Cells, func(row []float64, _ int) float64 { return row[c] })
}

// OrderColumnsByTotal reorders columns by descending column total. Ties keep
// their current order.
func (t Table) OrderColumnsByTotal() Table {
	totals := t.ColumnTotals()
	order := make([]int, len(t.Columns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return totals[order[i]] > totals[order[j]] })
	return t.selectColumns(order)
}

// Reindex keeps the columns named in canonical, in that order, dropping
// names the table does not have. Columns missing from canonical are dropped.
func (t Table) Reindex(canonical []string) Table {
	colIdx := indexOf(t.Columns)
	order := make([]int, 0, len(canonical))
	for _, name := range canonical {
		if c, ok := colIdx[name]; ok {
			order = append(order, c)
		}
	}
	return t.selectColumns(order)
}

func (t Table) selectColumns(order []int) Table {
	columns := lo.Map(order, func(c int, _ int) string { return t.Columns[c] })
	cells := lo.Map(t.Cells, func(row []float64, _ int) []float64 {
		return lo.Map(order, func(c int, _ int) float64 { return row[c] })
	})
	return Table{Rows: append([]string(nil), t.Rows...), Columns: columns, Cells: cells}
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, label := range labels {
		idx[label] = i
	}
	return idx
}
