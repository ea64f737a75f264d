// Package session holds the per-user dashboard state between requests.
package session

import (
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/access"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/filter"
	"github.com/google/uuid"
)

// State is everything a session keeps between actions. Records and Options
// are always set and cleared together.
type State struct {
	ID        string               `json:"id"`
	Scope     access.Scope         `json:"scope"`
	CreatedAt time.Time            `json:"created_at"`
	Range     domain.DateRange     `json:"range"`
	Loaded    bool                 `json:"loaded"`
	LoadedAt  time.Time            `json:"loaded_at"`
	Records   []domain.SalesRecord `json:"records,omitempty"`
	Options   filter.Options       `json:"options"`
}

// New starts an empty session for the scope.
func New(scope access.Scope, now time.Time) *State {
	return &State{
		ID:        uuid.NewString(),
		Scope:     scope,
		CreatedAt: now,
	}
}

// Reset drops the dataset and everything derived from it.
func (s *State) Reset() {
	s.Loaded = false
	s.LoadedAt = time.Time{}
	s.Range = domain.DateRange{}
	s.Records = nil
	s.Options = filter.Options{}
}

// Populate replaces the dataset and recomputes the option lists.
func (s *State) Populate(dates domain.DateRange, records []domain.SalesRecord, now time.Time) {
	s.Range = dates
	s.Records = records
	s.Options = filter.DeriveOptions(records)
	s.Loaded = true
	s.LoadedAt = now
}

// HasData reports whether a dashboard can be rendered.
func (s *State) HasData() bool {
	return s.Loaded && len(s.Records) > 0
}

// Clone returns a copy that shares nothing mutable with s.
func (s *State) Clone() *State {
	out := *s
	if s.Records != nil {
		out.Records = append([]domain.SalesRecord(nil), s.Records...)
		for i := range out.Records {
			out.Records[i].ZoneID = copyID(out.Records[i].ZoneID)
			out.Records[i].AreaID = copyID(out.Records[i].AreaID)
		}
	}
	if s.Options.Values != nil {
		out.Options.Values = make(map[domain.Dimension][]string, len(s.Options.Values))
		for k, v := range s.Options.Values {
			out.Options.Values[k] = append([]string(nil), v...)
		}
	}
	if s.Scope.Zone != nil {
		z := *s.Scope.Zone
		out.Scope.Zone = &z
	}
	if s.Scope.Area != nil {
		a := *s.Scope.Area
		out.Scope.Area = &a
	}
	return &out
}

func copyID(v *int64) *int64 {
	if v == nil {
		return nil
	}
	return domain.NewID(*v)
}
