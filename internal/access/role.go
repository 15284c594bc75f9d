// AngelaMos | 2026
// role.go

package access

import "strings"

type Role string

const (
	RoleFounder       Role = "FOUNDER"
	RoleTier2Admin    Role = "TIER2_ADMIN"
	RoleAdmin         Role = "ADMIN"
	RoleModerator     Role = "MODERATOR"
	RoleContentWriter Role = "CONTENT_WRITER"
	RoleSEO           Role = "SEO"

	// RoleEditor is a legacy tag kept so old rows still load. It carries
	// exactly the access of RoleModerator and is never granted anew.
	RoleEditor Role = "EDITOR"
)

// AssignableRoles are the roles that may be written by a grant.
var AssignableRoles = []Role{
	RoleFounder,
	RoleTier2Admin,
	RoleAdmin,
	RoleModerator,
	RoleContentWriter,
	RoleSEO,
}

// NormalizeRole maps a stored role string onto its canonical role. The
// second return is false for anything unrecognised.
func NormalizeRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))

	switch r {
	case RoleEditor:
		return RoleModerator, true
	case RoleFounder, RoleTier2Admin, RoleAdmin,
		RoleModerator, RoleContentWriter, RoleSEO:
		return r, true
	default:
		return "", false
	}
}

func (r Role) IsAssignable() bool {
	for _, a := range AssignableRoles {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
