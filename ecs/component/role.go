package component

// Role classifies a body for counting, rendering and collision policy.
type Role int

const (
	RoleBoundary Role = iota
	RolePrimary
	RoleIndicator
	RoleCosmetic
	RoleParticle
)

var roleNames = [...]string{"boundary", "primary", "indicator", "cosmetic", "particle"}

func (r Role) String() string {
	if int(r) < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleBoundary, RolePrimary, RoleIndicator, RoleCosmetic, RoleParticle}
}

// Ephemeral reports whether bodies of this role are swept by lifetime.
func (r Role) Ephemeral() bool {
	return r == RoleCosmetic || r == RoleParticle
}

// ParseRole returns the role with the given name.
func ParseRole(name string) (Role, bool) {
	for i, n := range roleNames {
		if n == name {
			return Role(i), true
		}
	}
	return 0, false
}
