package filter

import (
	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

// Options holds the selectable values of every dimension and the window of
// available report dates.
type Options struct {
	Values  map[domain.Dimension][]string `json:"values"`
	Dates   domain.DateRange              `json:"dates"`
	HasData bool                          `json:"has_data"`
}

// DeriveOptions collects the distinct non-null values of each dimension, in
// order of first appearance.
func DeriveOptions(records []domain.SalesRecord) Options {
	opts := Options{Values: make(map[domain.Dimension][]string, len(domain.Dimensions))}
	for _, dim := range domain.Dimensions {
		opts.Values[dim] = distinct(records, dim)
	}

	for i, r := range records {
		d := domain.TruncateDay(r.ReportDate)
		if i == 0 || d.Before(opts.Dates.Start) {
			opts.Dates.Start = d
		}
		if i == 0 || d.After(opts.Dates.End) {
			opts.Dates.End = d
		}
	}
	opts.HasData = len(records) > 0
	return opts
}

// Narrow returns options for the current filter state: supermarkets are
// limited to the selected zones and SKUs to the selected products. It only
// changes what is offered, never what Apply keeps.
func (o Options) Narrow(records []domain.SalesRecord, s Set) Options {
	out := Options{
		Values:  make(map[domain.Dimension][]string, len(o.Values)),
		Dates:   o.Dates,
		HasData: o.HasData,
	}
	for k, v := range o.Values {
		out.Values[k] = v
	}

	if s.Active(domain.DimensionZone) {
		scoped := Apply(records, NewSet().With(domain.DimensionZone, s.Values[domain.DimensionZone]...))
		out.Values[domain.DimensionSupermarket] = distinct(scoped, domain.DimensionSupermarket)
	}
	if s.Active(domain.DimensionProduct) {
		scoped := Apply(records, NewSet().With(domain.DimensionProduct, s.Values[domain.DimensionProduct]...))
		out.Values[domain.DimensionSKU] = distinct(scoped, domain.DimensionSKU)
	}
	return out
}

// First returns the first option of dim, used as the default single-select.
func (o Options) First(dim domain.Dimension) (string, bool) {
	values := o.Values[dim]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func distinct(records []domain.SalesRecord, dim domain.Dimension) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range records {
		v := r.Value(dim)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
