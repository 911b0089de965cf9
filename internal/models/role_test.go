package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoleGrantsMatchesTable(t *testing.T) {
	cases := []struct {
		role    Role
		perm    Permission
		granted bool
	}{
		{RoleSuperAdmin, PermCreateUser, true},
		{RoleSuperAdmin, PermAssignProject, true},
		{RoleSuperAdmin, PermUpdateProjectStatus, true},
		{RoleSuperAdmin, PermViewStaffDashboard, true},
		{RoleManager, PermCreateProject, true},
		{RoleManager, PermViewOwnProjects, true},
		{RoleManager, PermAssignProject, true},
		{RoleManager, PermViewManagerDashboard, true},
		{RoleManager, PermUpdateProjectStatus, false},
		{RoleManager, PermCreateUser, false},
		{RoleManager, PermViewAllUsers, false},
		{RoleStaff, PermViewAssignedProjects, true},
		{RoleStaff, PermUpdateProjectStatus, true},
		{RoleStaff, PermViewStaffDashboard, true},
		{RoleStaff, PermCreateProject, false},
		{RoleStaff, PermAssignProject, false},
		{RoleStaff, PermToggleUserActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.granted, RoleGrants(tc.role, tc.perm),
			"role %s permission %s", tc.role, tc.perm)
	}
}

func TestSuperAdminIsStrictSuperset(t *testing.T) {
	union := make(map[Permission]bool)
	for _, p := range PermissionsOf(RoleManager) {
		union[p] = true
	}
	for _, p := range PermissionsOf(RoleStaff) {
		union[p] = true
	}

	for p := range union {
		assert.True(t, RoleGrants(RoleSuperAdmin, p),
			"SuperAdmin must hold every permission any other role holds, missing %s", p)
	}

	// Strict: SuperAdmin holds at least one permission nobody else does.
	assert.Greater(t, len(PermissionsOf(RoleSuperAdmin)), len(union))
}

func TestPermissionsOfUnknownRole(t *testing.T) {
	assert.Empty(t, PermissionsOf(Role("Intern")))
	assert.False(t, RoleGrants(Role("Intern"), PermCreateProject))
}

func TestPermissionCount(t *testing.T) {
	// 13 distinct permissions, all granted to SuperAdmin.
	assert.Len(t, PermissionsOf(RoleSuperAdmin), 13)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("manager")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestMissingPermissionsIsConjunctive(t *testing.T) {
	manager := &AuthContext{UserID: primitive.NewObjectID(), Role: RoleManager, IsActive: true}

	// Holding some of the required permissions is still a denial, listing
	// exactly the ones missing.
	missing := manager.MissingPermissions([]Permission{
		PermCreateProject,       // granted
		PermUpdateProjectStatus, // not granted
		PermViewAllUsers,        // not granted
	})
	assert.Equal(t, []Permission{PermUpdateProjectStatus, PermViewAllUsers}, missing)

	// All granted passes.
	assert.Empty(t, manager.MissingPermissions([]Permission{PermCreateProject, PermAssignProject}))

	// Zero required permissions always passes.
	assert.Empty(t, manager.MissingPermissions(nil))
}

func TestAuthorizationFollowsRoleChange(t *testing.T) {
	user := &AuthContext{UserID: primitive.NewObjectID(), Role: RoleStaff, IsActive: true}

	assert.True(t, user.HasPermission(PermUpdateProjectStatus))
	assert.False(t, user.HasPermission(PermAssignProject))

	// SuperAdmin promotes the user to Manager: the next check reflects the
	// new role with no residue of the old one.
	user.Role = RoleManager
	assert.True(t, user.HasPermission(PermAssignProject))
	assert.False(t, user.HasPermission(PermUpdateProjectStatus))
}

func TestRepeatedDecisionIsStable(t *testing.T) {
	user := &AuthContext{UserID: primitive.NewObjectID(), Role: RoleManager, IsActive: true}
	required := []Permission{PermCreateProject, PermViewAllUsers}

	first := user.MissingPermissions(required)
	second := user.MissingPermissions(required)
	assert.Equal(t, first, second)
}
