package notify

import (
	"context"

	"expense-control-plane/backend/internal/logger"
)

// LogNotifier writes the notification to the log instead of sending email.
// Used in development and tests when no SendGrid key is configured.
type LogNotifier struct{}

func (LogNotifier) SendInvitation(ctx context.Context, inv Invitation) error {
	logger.Info("invitation notification (email disabled)",
		"to", inv.To,
		"organization", inv.OrganizationName,
		"invited_by", inv.InvitedByName,
		"invitation_id", inv.InvitationID,
	)
	return nil
}
