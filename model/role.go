package model

// Role is the closed set of account roles recognized by the system.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
	RoleITAdmin  Role = "it_admin"
)

// AllRoles lists every valid role, in declaration order.
var AllRoles = []Role{RoleStudent, RoleLecturer, RoleAdmin, RoleITAdmin}

// ParseRole maps a raw string onto the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleLecturer, RoleAdmin, RoleITAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdministrative reports whether the role carries the unconditional
// override: admin and it_admin pass every capability check in the system.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleITAdmin
}

// Authorized is the single authorization rule: the role passes if it is
// one of the required roles, or if it is administrative.
func (r Role) Authorized(required ...Role) bool {
	if r.IsAdministrative() {
		return true
	}
	for _, req := range required {
		if r == req {
			return true
		}
	}
	return false
}
