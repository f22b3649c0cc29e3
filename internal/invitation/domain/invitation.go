package domain

import (
	"errors"
	"time"

	membershipdomain "expense-control-plane/backend/internal/membership/domain"
)

// Status is the invitation lifecycle state. Pending is the only
// non-terminal state; accepted and expired are never left.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

// ExpiryDays is how long an invitation stays acceptable after creation.
const ExpiryDays = 7

// ErrNotPending is returned by the repository when a state transition finds
// the invitation no longer pending, e.g. a concurrent accept won the race.
var ErrNotPending = errors.New("invitation is not pending")

// Invitation is a time-bounded offer of membership addressed to an email,
// not a user id; the invitee may not have an account yet.
type Invitation struct {
	ID          string
	OrgID       string
	Email       string
	Role        membershipdomain.Role
	InvitedByID string
	Status      Status
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the invitation's deadline has passed. It says
// nothing about the stored status; expiry is written lazily on touch.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Detailed is an invitation joined with its organization and inviter, as
// shown to invitees and org admins.
type Detailed struct {
	Invitation
	OrgName      string
	InviterName  string
	InviterEmail string
}
