// Package notify delivers best-effort notifications. Callers dispatch and
// log failures; nothing here is retried or awaited on a request path.
package notify

import "context"

// Invitation carries everything an invitation email needs.
type Invitation struct {
	To               string
	OrganizationName string
	InvitedByName    string
	InvitationID     string
}

// Notifier sends invitation notifications. Implementations may fail; the
// caller swallows the error after logging it.
type Notifier interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}
