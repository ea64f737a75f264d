// Package filter applies the dashboard's dimension filters and derives the
// option lists offered for them.
package filter

import (
	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

// Set maps each dimension to the values it is restricted to. A dimension
// with no values matches everything. Dates, when set, is inclusive.
type Set struct {
	Values map[domain.Dimension][]string
	Dates  *domain.DateRange
}

// NewSet returns an empty filter set.
func NewSet() Set {
	return Set{Values: make(map[domain.Dimension][]string)}
}

// With returns a copy of s restricted to values for dim.
func (s Set) With(dim domain.Dimension, values ...string) Set {
	out := s.clone()
	out.Values[dim] = append([]string(nil), values...)
	return out
}

// WithDates returns a copy of s restricted to the range.
func (s Set) WithDates(r domain.DateRange) Set {
	out := s.clone()
	out.Dates = &r
	return out
}

// Active reports whether the dimension restricts anything.
func (s Set) Active(dim domain.Dimension) bool {
	return len(s.Values[dim]) > 0
}

// IsEmpty reports whether the set is a no-op.
func (s Set) IsEmpty() bool {
	for _, v := range s.Values {
		if len(v) > 0 {
			return false
		}
	}
	return s.Dates == nil
}

func (s Set) clone() Set {
	out := Set{Values: make(map[domain.Dimension][]string, len(s.Values))}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	if s.Dates != nil {
		d := *s.Dates
		out.Dates = &d
	}
	return out
}

// Apply keeps the records matching every active dimension and the date
// range. Predicates are independent, so the order they run in does not
// change the result.
func Apply(records []domain.SalesRecord, s Set) []domain.SalesRecord {
	if s.IsEmpty() {
		return records
	}

	sets := make(map[domain.Dimension]map[string]struct{}, len(s.Values))
	for dim, values := range s.Values {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[dim] = set
	}

	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if matches(r, sets) && (s.Dates == nil || s.Dates.Contains(r.ReportDate)) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.SalesRecord, sets map[domain.Dimension]map[string]struct{}) bool {
	for dim, set := range sets {
		if _, ok := set[r.Value(dim)]; !ok {
			return false
		}
	}
	return true
}

// Where keeps the records whose dim equals value.
func Where(records []domain.SalesRecord, dim domain.Dimension, value string) []domain.SalesRecord {
	return Apply(records, NewSet().With(dim, value))
}
