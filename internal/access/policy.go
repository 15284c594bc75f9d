// AngelaMos | 2026
// policy.go

package access

type Capability string

const (
	CapDashboard Capability = "dashboard"
	CapWorkforce Capability = "workforce"
	CapSettings  Capability = "settings"
	CapInbox     Capability = "inbox"
	CapApply     Capability = "apply"
	CapMedia     Capability = "media"
	CapContent   Capability = "content"
	CapSEO       Capability = "seo"
)

// AllCapabilities is ordered the way the hub lays out its sections.
var AllCapabilities = []Capability{
	CapDashboard,
	CapWorkforce,
	CapSettings,
	CapInbox,
	CapApply,
	CapMedia,
	CapContent,
	CapSEO,
}

type roleSet map[Role]struct{}

func rolesOf(roles ...Role) roleSet {
	s := make(roleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

var (
	staffRoles = []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleModerator}

	policy = map[Capability]roleSet{
		CapDashboard: rolesOf(
			RoleFounder, RoleTier2Admin, RoleAdmin,
			RoleModerator, RoleContentWriter, RoleSEO,
		),
		CapWorkforce: rolesOf(RoleFounder, RoleTier2Admin),
		CapSettings:  rolesOf(RoleFounder, RoleTier2Admin, RoleAdmin),
		CapInbox:     rolesOf(staffRoles...),
		CapApply:     rolesOf(staffRoles...),
		CapMedia:     rolesOf(append(staffRoles, RoleContentWriter)...),
		CapContent: rolesOf(
			RoleFounder, RoleTier2Admin, RoleAdmin,
			RoleContentWriter, RoleSEO,
		),
		CapSEO: rolesOf(RoleFounder, RoleTier2Admin, RoleAdmin, RoleSEO),
	}
)

// HasCapability reports whether role grants capability. The empty role
// (no workforce record) grants nothing. The legacy editor tag is
// evaluated as moderator.
func HasCapability(role Role, capability Capability) bool {
	if role == "" {
		return false
	}

	canonical, ok := NormalizeRole(string(role))
	if !ok {
		return false
	}

	allowed, ok := policy[capability]
	if !ok {
		return false
	}

	_, ok = allowed[canonical]
	return ok
}

// Capabilities lists every capability role holds, in AllCapabilities
// order.
func Capabilities(role Role) []Capability {
	caps := make([]Capability, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if HasCapability(role, c) {
			caps = append(caps, c)
		}
	}
	return caps
}
