package domain

// Role is the closed set of portal roles. A resolved user always holds
// exactly one role; "no role yet" is represented by the absence of an
// ApplicationUser, never by a sentinel role value.
type Role string

const (
	RoleFamily Role = "family"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// PortalPriority orders roles most-privileged-first. Portal landing after
// sign-in picks the first role in this list the user qualifies for.
var PortalPriority = []Role{RoleAdmin, RoleStaff, RoleFamily}

// ParseRole converts a stored role string to a Role.
// Unknown values resolve to ("", false).
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleFamily, RoleStaff, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// In reports whether r is a member of the given set.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
