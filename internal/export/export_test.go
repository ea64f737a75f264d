package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleTable() domain.PivotTable {
	return domain.PivotTable{
		RowDimension: domain.DimensionSupermarket,
		Metric:       domain.MetricTotal,
		Columns: []domain.PivotColumn{
			{Key: 202403, Label: "Month 03/2024"},
			{Key: 202404, Label: "Month 04/2024"},
		},
		Rows: []domain.PivotRow{
			{Label: "Fresh Mart", Cells: []decimal.Decimal{d("1200.5"), d("0")}, Total: d("1200.5")},
			{Label: "Value Store", Cells: []decimal.Decimal{d("10"), d("2500000")}, Total: d("2500010")},
		},
		Totals: domain.PivotRow{
			Label: domain.TotalLabel,
			Cells: []decimal.Decimal{d("1210.5"), d("2500000")},
			Total: d("2501210.5"),
		},
	}
}

func TestMatrix(t *testing.T) {
	header, rows := Matrix(sampleTable(), func(v decimal.Decimal) string { return v.String() })

	assert.Equal(t, []string{"supermarket", "Month 03/2024", "Month 04/2024", "TOTAL"}, header)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Fresh Mart", "1200.5", "0", "1200.5"}, rows[0])
	assert.Equal(t, []string{"TOTAL", "1210.5", "2500000", "2501210.5"}, rows[2])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "supermarket,Month 03/2024,Month 04/2024,TOTAL", lines[0])
	assert.Equal(t, "Value Store,10,2500000,2500010", lines[2])
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleTable())
	assert.Contains(t, out, "Fresh Mart")
	assert.Contains(t, out, "2,500,000")
	assert.Contains(t, out, "2,501,210.50")
	assert.Contains(t, out, "TOTAL")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1234", "1,234"},
		{"1234.5", "1,234.50"},
		{"1234.567", "1,234.57"},
		{"0.999", "1"},
		{"-0.25", "-0.25"},
		{"-1234.5", "-1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(d(tt.in)))
		})
	}
}
