package domain

import "strings"

// Role is an access class governing which endpoints a user may call.
type Role string

const (
	RoleRRHH        Role = "RRHH"
	RoleOperaciones Role = "OPERACIONES"
	RoleICAP        Role = "ICAP"
	RoleAdmin       Role = "ADMIN"
)

// DefaultRole is assigned when a registration omits the role.
const DefaultRole = RoleRRHH

var knownRoles = map[Role]struct{}{
	RoleRRHH:        {},
	RoleOperaciones: {},
	RoleICAP:        {},
	RoleAdmin:       {},
}

// ParseRole upper-cases s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := knownRoles[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// IsAuthorized is the single role policy of the API.
//
// ADMIN is a wildcard and passes every check, so call sites list only the
// business roles they serve. An empty allowed set admits any known role.
func IsAuthorized(role Role, allowed []Role) bool {
	if !role.Valid() {
		return false
	}
	if role == RoleAdmin || len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
