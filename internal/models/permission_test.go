package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsForRole(t *testing.T) {
	require.True(t, PermissionsForRole(RoleAdministrator).ApproveContent)
	require.True(t, PermissionsForRole(RoleManager).ApproveContent)
	require.False(t, PermissionsForRole(RoleEducator).ApproveContent)
	require.False(t, PermissionsForRole(RoleStaff).ApproveContent)
	require.False(t, PermissionsForRole(RoleViewer).ApproveContent)
}

func TestPermissionsForUnknownRole(t *testing.T) {
	perms := PermissionsForRole(UserRole("INTERN"))
	require.Equal(t, Permission{}, perms)
}

func TestApprovalRoles(t *testing.T) {
	roles := ApprovalRoles()
	require.Len(t, roles, 2)
	require.Equal(t, RoleAdministrator, roles[0].ID)
	require.Equal(t, RoleManager, roles[1].ID)
}

func TestAllRolesCatalogOrder(t *testing.T) {
	roles := AllRoles()
	require.Len(t, roles, 5)
	require.Equal(t, RoleAdministrator, roles[0].ID)
	require.Equal(t, RoleViewer, roles[4].ID)
}

func TestContentTypeTable(t *testing.T) {
	require.Equal(t, "courses", ContentTypeCourse.Table())
	require.Equal(t, "courses", ContentTypeLearningPathway.Table())
	require.Equal(t, "policies", ContentTypePolicy.Table())
	require.Equal(t, "procedures", ContentTypeProcedure.Table())
}

func TestContentTypeValid(t *testing.T) {
	require.True(t, ContentTypeCourse.Valid())
	require.False(t, ContentType("webinar").Valid())
}

func TestUserDisplayName(t *testing.T) {
	u := &User{FirstName: "Alex", LastName: "Author"}
	require.Equal(t, "Alex Author", u.DisplayName())

	u = &User{Email: "alex@example.org"}
	require.Equal(t, "alex@example.org", u.DisplayName())

	u = &User{}
	require.Equal(t, "Unknown", u.DisplayName())
}
