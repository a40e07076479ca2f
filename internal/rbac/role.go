package rbac

import "strings"

// Role is the closed set of roles the client knows how to gate on.
type Role string

const (
	RoleUnknown  Role = ""
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

// ParseRole normalises an upstream role string. Upstream may send "ADMIN",
// " admin " or "Admin"; anything unrecognised maps to RoleUnknown and
// therefore to no capabilities at all.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "EMPLOYEE":
		return RoleEmployee
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "Unknown"
	}
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
