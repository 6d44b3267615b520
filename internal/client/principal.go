package client

// Principal identifies who is acting and which owners they may act for.
// There is no ambient logged-in user; every repository and scheduling call
// takes the principal explicitly. Created at login, discarded at logout.
type Principal interface {
	// CanActFor reports whether the principal may operate on owner's slots.
	CanActFor(owner string) bool
	// Email returns the principal's own identity.
	Email() string
}

// UserPrincipal may only act on its own slot set.
type UserPrincipal struct {
	UserEmail string
}

func (p UserPrincipal) CanActFor(owner string) bool { return owner == p.UserEmail }
func (p UserPrincipal) Email() string               { return p.UserEmail }

// AdminPrincipal may act on any owner's slot set. The scheduling service is
// constructible only from an AdminPrincipal.
type AdminPrincipal struct {
	UserEmail string
}

func (p AdminPrincipal) CanActFor(owner string) bool { return true }
func (p AdminPrincipal) Email() string               { return p.UserEmail }
