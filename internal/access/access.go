// Package access implements row-level access control over sales records.
package access

import (
	"strconv"
	"strings"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

// Role is the caller's reporting role.
type Role string

const (
	RoleTeamLead Role = "TL" // one zone
	RoleArea     Role = "AD" // one area
	RoleSuper    Role = "SP" // everything
)

// Scope is the access scope of a session. Zone and Area are nil when absent
// or not a valid integer.
type Scope struct {
	Role Role   `json:"role"`
	Zone *int64 `json:"zone,omitempty"`
	Area *int64 `json:"area,omitempty"`
}

// ParseScope builds a scope from raw request parameters. Invalid zone or
// area values are treated as absent rather than rejected.
func ParseScope(role, zone, area string) Scope {
	return Scope{
		Role: Role(strings.TrimSpace(role)),
		Zone: parseID(zone),
		Area: parseID(area),
	}
}

func parseID(raw string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Authorize reports whether the scope grants any access at all.
func (s Scope) Authorize() error {
	switch {
	case s.Role == RoleTeamLead && s.Zone != nil:
		return nil
	case s.Role == RoleArea && s.Area != nil:
		return nil
	case s.Role == RoleSuper:
		return nil
	default:
		return domain.ErrAccessDenied
	}
}

// Allows reports whether a single record is visible under the scope.
func (s Scope) Allows(r domain.SalesRecord) bool {
	switch {
	case s.Role == RoleTeamLead && s.Zone != nil:
		return r.ZoneID != nil && *r.ZoneID == *s.Zone
	case s.Role == RoleArea && s.Area != nil:
		return r.AreaID != nil && *r.AreaID == *s.Area
	case s.Role == RoleSuper:
		return true
	default:
		return false
	}
}

// Apply returns the records visible under the scope. An unauthorized scope
// yields domain.ErrAccessDenied and no records. For RoleSuper the input
// slice is returned as is.
func (s Scope) Apply(records []domain.SalesRecord) ([]domain.SalesRecord, error) {
	if err := s.Authorize(); err != nil {
		return nil, err
	}
	if s.Role == RoleSuper {
		return records, nil
	}

	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if s.Allows(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
