package models

import "fmt"

// Role is the closed set of roles a user can hold. Exactly one per user.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleManager    Role = "Manager"
	RoleStaff      Role = "Staff"
)

// ParseRole validates a role name coming from a request or the database.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleManager, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Permission is a named capability granted to roles, never to individual users.
type Permission string

const (
	// User management
	PermCreateUser       Permission = "create_user"
	PermViewAllUsers     Permission = "view_all_users"
	PermChangeUserRole   Permission = "change_user_role"
	PermToggleUserActive Permission = "toggle_user_active"

	// Project requests
	PermCreateProject        Permission = "create_project"
	PermViewAllProjects      Permission = "view_all_projects"
	PermViewOwnProjects      Permission = "view_own_projects"
	PermViewAssignedProjects Permission = "view_assigned_projects"
	PermAssignProject        Permission = "assign_project"
	PermUpdateProjectStatus  Permission = "update_project_status"

	// Dashboards
	PermViewAdminDashboard   Permission = "view_admin_dashboard"
	PermViewManagerDashboard Permission = "view_manager_dashboard"
	PermViewStaffDashboard   Permission = "view_staff_dashboard"
)

// rolePermissions is the static role→permission table. It is process-wide
// read-only configuration: adding a role is a table edit here, never a code
// branch at a call site.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermCreateUser,
		PermViewAllUsers,
		PermChangeUserRole,
		PermToggleUserActive,
		PermCreateProject,
		PermViewAllProjects,
		PermViewOwnProjects,
		PermViewAssignedProjects,
		PermAssignProject,
		PermUpdateProjectStatus,
		PermViewAdminDashboard,
		PermViewManagerDashboard,
		PermViewStaffDashboard,
	},
	RoleManager: {
		PermCreateProject,
		PermViewOwnProjects,
		PermAssignProject,
		PermViewManagerDashboard,
	},
	RoleStaff: {
		PermViewAssignedProjects,
		PermUpdateProjectStatus,
		PermViewStaffDashboard,
	},
}

// PermissionsOf returns the permission set granted to a role. Unknown roles
// get an empty set, never an error.
func PermissionsOf(role Role) []Permission {
	return rolePermissions[role]
}

// RoleGrants reports whether a role holds a single permission.
func RoleGrants(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
