package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// SalesRecord is one row of the sales summary view: a product sold at a
// supermarket on a given day.
type SalesRecord struct {
	ReportDate      time.Time       `json:"report_date"`
	ZoneID          *int64          `json:"zone_id,omitempty"`
	ZoneName        string          `json:"zone_name"`
	AreaID          *int64          `json:"area_id,omitempty"`
	AreaName        string          `json:"area_name"`
	SupermarketName string          `json:"supermarket_name"`
	ProductName     string          `json:"product_name"`
	CategoryName    string          `json:"category_name"`
	SKUName         string          `json:"sku_name"`
	System          string          `json:"system"`
	Quantity        int64           `json:"quantity"`
	Total           decimal.Decimal `json:"total"`

	// Set by time bucketing.
	Group    string `json:"group,omitempty"`
	GroupKey int    `json:"group_key,omitempty"`
}

// NewID returns a pointer to v, for the nullable id fields of SalesRecord.
func NewID(v int64) *int64 {
	return &v
}

// Dimension names a categorical column of SalesRecord.
type Dimension string

const (
	DimensionZone        Dimension = "zone"
	DimensionArea        Dimension = "area"
	DimensionSupermarket Dimension = "supermarket"
	DimensionProduct     Dimension = "product"
	DimensionCategory    Dimension = "category"
	DimensionSKU         Dimension = "sku"
	DimensionSystem      Dimension = "system"
)

// Dimensions lists every filterable dimension in display order.
var Dimensions = []Dimension{
	DimensionZone,
	DimensionArea,
	DimensionSystem,
	DimensionSupermarket,
	DimensionCategory,
	DimensionProduct,
	DimensionSKU,
}

// Value returns the record's value for the dimension. Empty means null.
func (r SalesRecord) Value(dim Dimension) string {
	switch dim {
	case DimensionZone:
		return r.ZoneName
	case DimensionArea:
		return r.AreaName
	case DimensionSupermarket:
		return r.SupermarketName
	case DimensionProduct:
		return r.ProductName
	case DimensionCategory:
		return r.CategoryName
	case DimensionSKU:
		return r.SKUName
	case DimensionSystem:
		return r.System
	default:
		return ""
	}
}

// ParseDimension accepts the dimension name in any case.
func ParseDimension(raw string) (Dimension, error) {
	dim := Dimension(strings.ToLower(strings.TrimSpace(raw)))
	for _, d := range Dimensions {
		if d == dim {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", raw)
}

// Metric is the measure summed by the aggregation engine.
type Metric string

const (
	MetricQuantity Metric = "quantity"
	MetricTotal    Metric = "total"
)

// Amount returns the metric value of the record as a decimal.
func (r SalesRecord) Amount(m Metric) decimal.Decimal {
	if m == MetricQuantity {
		return decimal.NewFromInt(r.Quantity)
	}
	return r.Total
}

// ViewMode selects the aggregated metric.
type ViewMode string

const (
	ViewModeSales   ViewMode = "sales"
	ViewModeProduct ViewMode = "product"
)

// ParseViewMode defaults to sales for an empty value.
func ParseViewMode(raw string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sales":
		return ViewModeSales, nil
	case "product":
		return ViewModeProduct, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", raw)
	}
}

// Metric maps the view mode to the summed measure.
func (m ViewMode) Metric() Metric {
	if m == ViewModeProduct {
		return MetricQuantity
	}
	return MetricTotal
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange truncates both bounds to UTC calendar days.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("invalid date range: %s is after %s", r.Start.Format(dateLayout), r.End.Format(dateLayout))
	}
	return r, nil
}

// ParseDateRange parses YYYY-MM-DD bounds.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(dateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e)
}

// MonthToDate returns the range from the first day of now's month to now.
func MonthToDate(now time.Time) DateRange {
	today := TruncateDay(now)
	return DateRange{
		Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   today,
	}
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Clip intersects r with the window. A range that does not overlap the
// window is returned unchanged so that it still matches nothing.
func (r DateRange) Clip(window DateRange) DateRange {
	out := r
	if out.Start.Before(window.Start) {
		out.Start = window.Start
	}
	if out.End.After(window.End) {
		out.End = window.End
	}
	if out.End.Before(out.Start) {
		return r
	}
	return out
}

// IsZero reports whether the range was never set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + ".." + r.End.Format(dateLayout)
}

// TruncateDay drops the clock part and normalises to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
