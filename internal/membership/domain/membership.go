package domain

import (
	"time"
)

// Membership links a user to an organization with a role. At most one
// membership exists per (user, organization) pair; the store enforces this
// with a unique constraint.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	CreatedAt time.Time
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole returns the Role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), true
	}
	return "", false
}

// Member is a membership joined with the user's directory details, as shown
// in organization member listings.
type Member struct {
	Membership
	UserName  string
	UserEmail string
}
