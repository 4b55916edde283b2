package entity

// Actor is the identity attached to a request: either an authenticated user
// or nobody. Permission checks work on both without a login check first.
type Actor interface {
	Can(perm Permission) bool
	IsAdministrator() bool
	IsAuthenticated() bool
}

// Authenticated wraps a persisted User as a request actor.
type Authenticated struct {
	User *User
}

func (a Authenticated) Can(perm Permission) bool { return a.User.Can(perm) }
func (a Authenticated) IsAdministrator() bool    { return a.User.IsAdministrator() }
func (a Authenticated) IsAuthenticated() bool    { return true }

// Anonymous is the actor for unauthenticated requests. It holds no
// permissions at all, which is distinct from a user with no role.
type Anonymous struct{}

func (Anonymous) Can(Permission) bool   { return false }
func (Anonymous) IsAdministrator() bool { return false }
func (Anonymous) IsAuthenticated() bool { return false }
