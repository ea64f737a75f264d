// Package aggregate builds pivot tables and chart series from bucketed
// sales records. All sums are decimal so currency totals do not drift.
package aggregate

import (
	"sort"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Pivot sums metric over rowDim × time group. Records must already carry a
// Group and GroupKey. Rows are sorted by label, columns by group key, and
// missing combinations are zero. Records with no rowDim value are left out.
func Pivot(records []domain.SalesRecord, rowDim domain.Dimension, metric domain.Metric) domain.PivotTable {
	used := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.Value(rowDim) != "" {
			used = append(used, r)
		}
	}

	columns := groupColumns(used)
	colIndex := make(map[int]int, len(columns))
	for i, c := range columns {
		colIndex[c.Key] = i
	}

	cells := make(map[string][]decimal.Decimal)
	for _, r := range used {
		label := r.Value(rowDim)
		row, ok := cells[label]
		if !ok {
			row = zeros(len(columns))
			cells[label] = row
		}
		i := colIndex[r.GroupKey]
		row[i] = row[i].Add(r.Amount(metric))
	}

	labels := make([]string, 0, len(cells))
	for label := range cells {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	table := domain.PivotTable{
		RowDimension: rowDim,
		Metric:       metric,
		Columns:      columns,
		Rows:         make([]domain.PivotRow, 0, len(labels)),
		Totals: domain.PivotRow{
			Label: domain.TotalLabel,
			Cells: zeros(len(columns)),
			Total: decimal.Zero,
		},
	}
	for _, label := range labels {
		row := domain.PivotRow{Label: label, Cells: cells[label], Total: sum(cells[label])}
		for i, v := range row.Cells {
			table.Totals.Cells[i] = table.Totals.Cells[i].Add(v)
		}
		table.Totals.Total = table.Totals.Total.Add(row.Total)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Cell returns the value at (row, column label). TOTAL addresses the totals
// row or column. Unknown coordinates are zero.
func Cell(t domain.PivotTable, row, column string) decimal.Decimal {
	r, ok := findRow(t, row)
	if !ok {
		return decimal.Zero
	}
	if column == domain.TotalLabel {
		return r.Total
	}
	for i, c := range t.Columns {
		if c.Label == column {
			return r.Cells[i]
		}
	}
	return decimal.Zero
}

func findRow(t domain.PivotTable, label string) (domain.PivotRow, bool) {
	if label == domain.TotalLabel {
		return t.Totals, true
	}
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return domain.PivotRow{}, false
}

func groupColumns(records []domain.SalesRecord) []domain.PivotColumn {
	seen := make(map[int]string)
	for _, r := range records {
		if _, ok := seen[r.GroupKey]; !ok {
			seen[r.GroupKey] = r.Group
		}
	}
	columns := make([]domain.PivotColumn, 0, len(seen))
	for key, label := range seen {
		columns = append(columns, domain.PivotColumn{Key: key, Label: label})
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Key < columns[j].Key })
	return columns
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
