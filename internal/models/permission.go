package models

// Permission is the capability set attached to a role. The catalog below is
// a compile-time constant; the same role always resolves to the same set.
type Permission struct {
	ApproveContent bool `json:"approve_content"`
	AuthorContent  bool `json:"author_content"`
	ManageUsers    bool `json:"manage_users"`
	ManageSettings bool `json:"manage_settings"`
	ViewAnalytics  bool `json:"view_analytics"`
}

// RoleInfo describes a catalog entry for display purposes.
type RoleInfo struct {
	ID          UserRole `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
}

type roleEntry struct {
	info        RoleInfo
	permissions Permission
}

// roleCatalog lists every known role in display order.
var roleCatalog = []roleEntry{
	{
		info: RoleInfo{ID: RoleAdministrator, Name: "administrator", DisplayName: "Administrator"},
		permissions: Permission{
			ApproveContent: true,
			AuthorContent:  true,
			ManageUsers:    true,
			ManageSettings: true,
			ViewAnalytics:  true,
		},
	},
	{
		info: RoleInfo{ID: RoleManager, Name: "manager", DisplayName: "Facility Manager"},
		permissions: Permission{
			ApproveContent: true,
			AuthorContent:  true,
			ManageSettings: true,
			ViewAnalytics:  true,
		},
	},
	{
		info:        RoleInfo{ID: RoleEducator, Name: "educator", DisplayName: "Clinical Educator"},
		permissions: Permission{AuthorContent: true, ViewAnalytics: true},
	},
	{
		info:        RoleInfo{ID: RoleStaff, Name: "staff", DisplayName: "Staff"},
		permissions: Permission{AuthorContent: true},
	},
	{
		info:        RoleInfo{ID: RoleViewer, Name: "viewer", DisplayName: "Viewer"},
		permissions: Permission{},
	},
}

// PermissionsForRole resolves the capability set for a role. Unknown roles
// get the least-privileged (viewer) set; this never fails.
func PermissionsForRole(role UserRole) Permission {
	for _, entry := range roleCatalog {
		if entry.info.ID == role {
			return entry.permissions
		}
	}
	return Permission{}
}

// ApprovalRoles returns the catalog entries allowed to approve content.
func ApprovalRoles() []RoleInfo {
	roles := make([]RoleInfo, 0, 2)
	for _, entry := range roleCatalog {
		if entry.permissions.ApproveContent {
			roles = append(roles, entry.info)
		}
	}
	return roles
}

// AllRoles returns the full role catalog for settings screens.
func AllRoles() []RoleInfo {
	roles := make([]RoleInfo, 0, len(roleCatalog))
	for _, entry := range roleCatalog {
		roles = append(roles, entry.info)
	}
	return roles
}
