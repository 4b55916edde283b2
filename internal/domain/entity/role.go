package entity

// Permission is a capability bit. Powers of two so a role's grant set can be
// combined into a single integer mask.
type Permission int

const (
	PermFollow   Permission = 1
	PermComment  Permission = 2
	PermWrite    Permission = 4
	PermModerate Permission = 8
	PermAdmin    Permission = 16
)

// Role holds a named permission bitmask. Exactly one role is marked Default;
// new users receive it unless their email matches the configured admin address.
type Role struct {
	ID          int64
	Name        string
	Default     bool
	Permissions Permission
}

// HasPermission reports whether every bit of perm is granted.
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

// AddPermission grants perm. No-op if already granted.
func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.Permissions += perm
	}
}

// RemovePermission revokes perm. No-op if not granted.
func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.Permissions -= perm
	}
}

// ResetPermissions clears the mask.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// RoleGrants is the canonical role table. Seeding upserts one row per name
// with exactly this permission set; "User" is the default role.
var RoleGrants = map[string][]Permission{
	"User":          {PermFollow, PermComment, PermWrite},
	"Moderator":     {PermFollow, PermComment, PermWrite, PermModerate},
	"Administrator": {PermFollow, PermComment, PermWrite, PermModerate, PermAdmin},
}

// DefaultRoleName names the role assigned to new users.
const DefaultRoleName = "User"

// AdminRoleName names the role holding every permission.
const AdminRoleName = "Administrator"
