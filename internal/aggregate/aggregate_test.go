package aggregate

import (
	"testing"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/timebucket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func sale(date, supermarket, product string, qty int64, total string) domain.SalesRecord {
	d, _ := time.Parse("2006-01-02", date)
	return domain.SalesRecord{
		ReportDate:      d,
		SupermarketName: supermarket,
		ProductName:     product,
		Quantity:        qty,
		Total:           decimal.RequireFromString(total),
	}
}

func bucketed(g timebucket.Granularity) []domain.SalesRecord {
	return timebucket.Apply([]domain.SalesRecord{
		sale("2024-03-02", "S2", "Tea", 2, "10.10"),
		sale("2024-03-01", "S1", "Tea", 1, "5.05"),
		sale("2024-03-02", "S1", "Coffee", 3, "30.00"),
		sale("2024-03-01", "S1", "Tea", 4, "20.20"),
		sale("2024-03-03", "", "Tea", 9, "99.00"),
	}, g)
}

func TestPivotLayout(t *testing.T) {
	table := Pivot(bucketed(timebucket.Day), domain.DimensionSupermarket, domain.MetricTotal)

	require.Len(t, table.Columns, 2)
	assert.Equal(t, "01/03", table.Columns[0].Label)
	assert.Equal(t, "02/03", table.Columns[1].Label)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "S1", table.Rows[0].Label)
	assert.Equal(t, "S2", table.Rows[1].Label)

	assertDecimal(t, "25.25", Cell(table, "S1", "01/03"))
	assertDecimal(t, "30", Cell(table, "S1", "02/03"))
	assertDecimal(t, "55.25", Cell(table, "S1", domain.TotalLabel))
	assertDecimal(t, "0", Cell(table, "S2", "01/03"))
	assertDecimal(t, "10.1", Cell(table, "S2", "02/03"))
}

func TestPivotGrandTotal(t *testing.T) {
	records := bucketed(timebucket.Day)
	table := Pivot(records, domain.DimensionSupermarket, domain.MetricTotal)

	want := decimal.Zero
	for _, r := range records {
		if r.SupermarketName != "" {
			want = want.Add(r.Total)
		}
	}
	assertDecimal(t, want.String(), table.Totals.Total)

	colSum := decimal.Zero
	for _, v := range table.Totals.Cells {
		colSum = colSum.Add(v)
	}
	rowSum := decimal.Zero
	for _, r := range table.Rows {
		rowSum = rowSum.Add(r.Total)
	}
	assertDecimal(t, table.Totals.Total.String(), colSum)
	assertDecimal(t, table.Totals.Total.String(), rowSum)
}

func TestPivotQuantityByMonth(t *testing.T) {
	table := Pivot(bucketed(timebucket.Month), domain.DimensionProduct, domain.MetricQuantity)

	require.Len(t, table.Columns, 1)
	assert.Equal(t, "Month 03/2024", table.Columns[0].Label)
	assert.Equal(t, []string{"Coffee", "Tea"}, []string{table.Rows[0].Label, table.Rows[1].Label})
	assertDecimal(t, "3", Cell(table, "Coffee", "Month 03/2024"))
	assertDecimal(t, "16", Cell(table, "Tea", domain.TotalLabel))
	assertDecimal(t, "19", Cell(table, domain.TotalLabel, domain.TotalLabel))
}

func TestPivotEmpty(t *testing.T) {
	table := Pivot(nil, domain.DimensionSKU, domain.MetricTotal)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
	assert.Equal(t, domain.TotalLabel, table.Totals.Label)
	assertDecimal(t, "0", table.Totals.Total)
}

func TestPivotColumnsFollowKeysAcrossYears(t *testing.T) {
	records := timebucket.Apply([]domain.SalesRecord{
		sale("2024-01-01", "S1", "Tea", 1, "1"),
		sale("2023-12-31", "S1", "Tea", 1, "1"),
	}, timebucket.Day)

	table := Pivot(records, domain.DimensionSupermarket, domain.MetricQuantity)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "31/12", table.Columns[0].Label)
	assert.Equal(t, "01/01", table.Columns[1].Label)
}

func TestSeries(t *testing.T) {
	points := Series(bucketed(timebucket.Day), domain.MetricQuantity)

	require.Len(t, points, 3)
	assert.Equal(t, "01/03", points[0].Group)
	assertDecimal(t, "5", points[0].Value)
	assert.Equal(t, "02/03", points[1].Group)
	assertDecimal(t, "5", points[1].Value)
	assert.Equal(t, "03/03", points[2].Group)
	assertDecimal(t, "9", points[2].Value)
}

func TestMultiSeries(t *testing.T) {
	points := MultiSeries(bucketed(timebucket.Day), domain.DimensionProduct, domain.MetricTotal)

	require.Len(t, points, 4)
	assert.Equal(t, domain.SeriesPoint{Group: "01/03", GroupKey: 20240301, Secondary: "Tea"}, withoutValue(points[0]))
	assertDecimal(t, "25.25", points[0].Value)
	assert.Equal(t, "Coffee", points[1].Secondary)
	assert.Equal(t, "Tea", points[2].Secondary)
	assert.Equal(t, 20240303, points[3].GroupKey)
}

func withoutValue(p domain.SeriesPoint) domain.SeriesPoint {
	p.Value = decimal.Decimal{}
	return p
}
