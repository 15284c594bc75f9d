// AngelaMos | 2026
// policy_test.go

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCapability_Table(t *testing.T) {
	tests := []struct {
		capability Capability
		allowed    []Role
	}{
		{CapDashboard, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleModerator, RoleContentWriter, RoleSEO, RoleEditor}},
		{CapWorkforce, []Role{RoleFounder, RoleTier2Admin}},
		{CapSettings, []Role{RoleFounder, RoleTier2Admin, RoleAdmin}},
		{CapInbox, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleModerator, RoleEditor}},
		{CapApply, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleModerator, RoleEditor}},
		{CapMedia, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleModerator, RoleEditor, RoleContentWriter}},
		{CapContent, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleContentWriter, RoleSEO}},
		{CapSEO, []Role{RoleFounder, RoleTier2Admin, RoleAdmin, RoleSEO}},
	}

	everyRole := append([]Role{}, AssignableRoles...)
	everyRole = append(everyRole, RoleEditor)

	for _, tt := range tests {
		allowed := make(map[Role]bool, len(tt.allowed))
		for _, r := range tt.allowed {
			allowed[r] = true
		}

		for _, role := range everyRole {
			got := HasCapability(role, tt.capability)
			assert.Equal(t, allowed[role], got,
				"HasCapability(%s, %s)", role, tt.capability)
		}
	}
}

func TestHasCapability_NoRoleNeverAllowed(t *testing.T) {
	for _, c := range AllCapabilities {
		assert.False(t, HasCapability("", c), "empty role granted %s", c)
	}
}

func TestHasCapability_UnknownRoleOrCapability(t *testing.T) {
	assert.False(t, HasCapability(Role("SUPERUSER"), CapDashboard))
	assert.False(t, HasCapability(RoleFounder, Capability("billing")))
}

func TestHasCapability_EditorMatchesModerator(t *testing.T) {
	for _, c := range AllCapabilities {
		assert.Equal(t,
			HasCapability(RoleModerator, c),
			HasCapability(RoleEditor, c),
			"editor diverges from moderator on %s", c,
		)
	}
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, AllCapabilities, Capabilities(RoleFounder))
	assert.Equal(t,
		[]Capability{CapDashboard, CapMedia, CapContent},
		Capabilities(RoleContentWriter),
	)
	assert.Empty(t, Capabilities(""))
}
