package domain

import "time"

// Role is one of the fixed platform roles carried in a verified token.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleAttorney   Role = "attorney"
	RoleParalegal  Role = "paralegal"
	RoleStaff      Role = "staff"
	RoleClient     Role = "client"
)

// Principal is the verified caller identity for one request. It is produced
// by the authentication middleware from an upstream-verified bearer token and
// is read-only afterwards.
type Principal struct {
	Subject        string
	OrganizationID string
	Roles          []Role
	SessionID      string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the principal carries the universal bypass role.
func (p *Principal) IsSuperAdmin() bool {
	return p.HasRole(RoleSuperAdmin)
}

// RoleStrings returns the role set as plain strings for audit records.
func (p *Principal) RoleStrings() []string {
	out := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		out[i] = string(r)
	}
	return out
}

// RolesAllow decides role-based access: no declared requirement allows
// everyone, an empty held set is denied, super_admin bypasses unconditionally,
// otherwise the two sets must intersect.
func RolesAllow(required, held []Role) bool {
	if len(required) == 0 {
		return true
	}
	if len(held) == 0 {
		return false
	}
	req := make(map[Role]struct{}, len(required))
	for _, r := range required {
		req[r] = struct{}{}
	}
	for _, r := range held {
		if r == RoleSuperAdmin {
			return true
		}
		if _, ok := req[r]; ok {
			return true
		}
	}
	return false
}
