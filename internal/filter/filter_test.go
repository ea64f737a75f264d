package filter

import (
	"testing"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date string, zone, supermarket, product, sku string) domain.SalesRecord {
	d, _ := time.Parse("2006-01-02", date)
	return domain.SalesRecord{
		ReportDate:      d,
		ZoneName:        zone,
		SupermarketName: supermarket,
		ProductName:     product,
		SKUName:         sku,
	}
}

func fixture() []domain.SalesRecord {
	return []domain.SalesRecord{
		rec("2024-03-01", "North", "S1", "Tea", "Tea 1kg"),
		rec("2024-03-02", "North", "S2", "Coffee", "Coffee 250g"),
		rec("2024-03-03", "South", "S3", "Tea", "Tea 500g"),
		rec("2024-03-04", "South", "S1", "Sugar", ""),
		rec("2024-03-05", "", "S4", "Coffee", "Coffee 1kg"),
	}
}

func supermarkets(records []domain.SalesRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.SupermarketName)
	}
	return out
}

func TestApply(t *testing.T) {
	march3, _ := domain.ParseDateRange("2024-03-01", "2024-03-03")

	tests := []struct {
		name string
		set  Set
		want []string
	}{
		{"empty set keeps everything", NewSet(), []string{"S1", "S2", "S3", "S1", "S4"}},
		{"single dimension", NewSet().With(domain.DimensionZone, "North"), []string{"S1", "S2"}},
		{"multi value", NewSet().With(domain.DimensionSupermarket, "S1", "S4"), []string{"S1", "S1", "S4"}},
		{"and across dimensions", NewSet().With(domain.DimensionZone, "South").With(domain.DimensionProduct, "Tea"), []string{"S3"}},
		{"null never matches", NewSet().With(domain.DimensionSKU, ""), []string{}},
		{"dates", NewSet().WithDates(march3), []string{"S1", "S2", "S3"}},
		{"dates and dimension", NewSet().WithDates(march3).With(domain.DimensionProduct, "Coffee"), []string{"S2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, supermarkets(Apply(fixture(), tt.set)))
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	s := NewSet().With(domain.DimensionProduct, "Tea", "Coffee").With(domain.DimensionZone, "North")
	once := Apply(fixture(), s)
	twice := Apply(once, s)
	assert.Equal(t, once, twice)
}

func TestApplyIsCommutative(t *testing.T) {
	zone := NewSet().With(domain.DimensionZone, "South")
	product := NewSet().With(domain.DimensionProduct, "Tea")

	a := Apply(Apply(fixture(), zone), product)
	b := Apply(Apply(fixture(), product), zone)
	assert.Equal(t, a, b)
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := NewSet().With(domain.DimensionZone, "North")
	_ = base.With(domain.DimensionProduct, "Tea")
	assert.False(t, base.Active(domain.DimensionProduct))
	assert.Nil(t, base.Dates)
}

func TestDeriveOptions(t *testing.T) {
	opts := DeriveOptions(fixture())

	assert.True(t, opts.HasData)
	assert.Equal(t, []string{"North", "South"}, opts.Values[domain.DimensionZone])
	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, opts.Values[domain.DimensionSupermarket])
	assert.Equal(t, []string{"Tea 1kg", "Coffee 250g", "Tea 500g", "Coffee 1kg"}, opts.Values[domain.DimensionSKU])
	assert.Equal(t, "2024-03-01..2024-03-05", opts.Dates.String())

	first, ok := opts.First(domain.DimensionProduct)
	require.True(t, ok)
	assert.Equal(t, "Tea", first)
}

func TestDeriveOptionsEmpty(t *testing.T) {
	opts := DeriveOptions(nil)
	assert.False(t, opts.HasData)
	assert.True(t, opts.Dates.IsZero())

	_, ok := opts.First(domain.DimensionProduct)
	assert.False(t, ok)
}

func TestNarrow(t *testing.T) {
	records := fixture()
	opts := DeriveOptions(records)

	narrowed := opts.Narrow(records, NewSet().With(domain.DimensionZone, "South"))
	assert.Equal(t, []string{"S3", "S1"}, narrowed.Values[domain.DimensionSupermarket])
	assert.Equal(t, opts.Values[domain.DimensionSKU], narrowed.Values[domain.DimensionSKU])

	narrowed = opts.Narrow(records, NewSet().With(domain.DimensionProduct, "Coffee"))
	assert.Equal(t, []string{"Coffee 250g", "Coffee 1kg"}, narrowed.Values[domain.DimensionSKU])
	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, opts.Values[domain.DimensionSupermarket])
}
