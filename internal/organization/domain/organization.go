package domain

import (
	"errors"
	"time"

	membershipdomain "expense-control-plane/backend/internal/membership/domain"
)

// Org represents an organization/tenant. It owns members, categories,
// policies, and invitations; deleting it cascades to all of them.
type Org struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate validates the organization for persistence. Returns an error describing the first validation failure.
func (o *Org) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// OrgWithRole is an organization paired with the caller's role in it, as
// returned by the "my organizations" listing.
type OrgWithRole struct {
	Org
	Role membershipdomain.Role
}
