package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissionBits(t *testing.T) {
	r := &Role{Name: "User"}
	assert.False(t, r.HasPermission(PermFollow))

	r.AddPermission(PermFollow)
	r.AddPermission(PermWrite)
	assert.True(t, r.HasPermission(PermFollow))
	assert.True(t, r.HasPermission(PermWrite))
	assert.False(t, r.HasPermission(PermModerate))

	// adding twice must not double the bit
	r.AddPermission(PermFollow)
	assert.Equal(t, PermFollow+PermWrite, r.Permissions)

	r.RemovePermission(PermWrite)
	assert.False(t, r.HasPermission(PermWrite))
	// removing an absent bit is a no-op
	r.RemovePermission(PermWrite)
	assert.Equal(t, PermFollow, r.Permissions)

	r.ResetPermissions()
	assert.Equal(t, Permission(0), r.Permissions)
}

func TestRoleGrants(t *testing.T) {
	user := RoleGrants["User"]
	assert.ElementsMatch(t, []Permission{PermFollow, PermComment, PermWrite}, user)

	mod := RoleGrants["Moderator"]
	assert.Contains(t, mod, PermModerate)
	assert.NotContains(t, mod, PermAdmin)

	admin := RoleGrants[AdminRoleName]
	assert.Contains(t, admin, PermAdmin)
	assert.Len(t, admin, 5)
}

func TestUserCanAndIsAdministrator(t *testing.T) {
	userRole := &Role{Name: DefaultRoleName}
	for _, p := range RoleGrants[DefaultRoleName] {
		userRole.AddPermission(p)
	}
	adminRole := &Role{Name: AdminRoleName}
	for _, p := range RoleGrants[AdminRoleName] {
		adminRole.AddPermission(p)
	}

	u := &User{Username: "nikos", Role: userRole}
	assert.True(t, u.Can(PermWrite))
	assert.False(t, u.Can(PermAdmin))
	assert.False(t, u.IsAdministrator())

	a := &User{Username: "root", Role: adminRole}
	assert.True(t, a.Can(PermAdmin))
	assert.True(t, a.IsAdministrator())

	// no role resolved yet means no permissions
	bare := &User{Username: "ghost"}
	assert.False(t, bare.Can(PermFollow))
}

func TestActorVariants(t *testing.T) {
	role := &Role{Name: DefaultRoleName}
	role.AddPermission(PermFollow)
	u := &User{Username: "nikos", Role: role}

	var actor Actor = Authenticated{User: u}
	assert.True(t, actor.IsAuthenticated())
	assert.True(t, actor.Can(PermFollow))
	assert.False(t, actor.IsAdministrator())

	actor = Anonymous{}
	assert.False(t, actor.IsAuthenticated())
	assert.False(t, actor.Can(PermFollow))
	assert.False(t, actor.IsAdministrator())
}
