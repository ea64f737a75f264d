package domain

import "github.com/shopspring/decimal"

// TotalLabel names the synthetic totals row and column of pivot tables.
const TotalLabel = "TOTAL"

// PivotColumn is a time-group column, ordered by Key.
type PivotColumn struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
}

// PivotRow holds one row of a pivot table. Cells align with the table's
// Columns; Total is the row-wise sum.
type PivotRow struct {
	Label string            `json:"label"`
	Cells []decimal.Decimal `json:"cells"`
	Total decimal.Decimal   `json:"total"`
}

// PivotTable is a row-dimension × time-group sum of a metric. Totals is the
// TOTAL row; Totals.Total is the grand total.
type PivotTable struct {
	RowDimension Dimension     `json:"row_dimension"`
	Metric       Metric        `json:"metric"`
	Columns      []PivotColumn `json:"columns"`
	Rows         []PivotRow    `json:"rows"`
	Totals       PivotRow      `json:"totals"`
}

// SeriesPoint is one point of a chart series. Secondary is empty for
// single-series charts.
type SeriesPoint struct {
	Group     string          `json:"group"`
	GroupKey  int             `json:"group_key"`
	Secondary string          `json:"secondary,omitempty"`
	Value     decimal.Decimal `json:"value"`
}

// Lookup is a single-select drill-down table.
type Lookup struct {
	Dimension Dimension  `json:"dimension"`
	Selected  string     `json:"selected"`
	Table     PivotTable `json:"table"`
}

// Comparison is the multi-series line chart data.
type Comparison struct {
	By     Dimension     `json:"by"`
	Points []SeriesPoint `json:"points"`
}

// Dashboard is everything one render of the dashboard needs.
type Dashboard struct {
	Mode          ViewMode      `json:"mode"`
	Granularity   string        `json:"granularity"`
	Metric        Metric        `json:"metric"`
	DateRange     DateRange     `json:"date_range"`
	RecordCount   int           `json:"record_count"`
	BySupermarket PivotTable    `json:"by_supermarket"`
	BySKU         PivotTable    `json:"by_sku"`
	Trend         []SeriesPoint `json:"trend"`
	ByProduct     *Lookup       `json:"lookup_product,omitempty"`
	ByOutlet      *Lookup       `json:"lookup_outlet,omitempty"`
	ByVariant     *Lookup       `json:"lookup_sku,omitempty"`
	Comparison    Comparison    `json:"comparison"`
}
