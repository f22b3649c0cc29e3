package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends invitation emails through the SendGrid API.
type SendGridNotifier struct {
	client     *sendgrid.Client
	from       *mail.Email
	appBaseURL string
}

// NewSendGridNotifier returns a notifier that sends from the given address.
// appBaseURL is the front-end origin used to build the accept link.
func NewSendGridNotifier(apiKey, fromAddress, appBaseURL string) *SendGridNotifier {
	return &SendGridNotifier{
		client:     sendgrid.NewSendClient(apiKey),
		from:       mail.NewEmail("", fromAddress),
		appBaseURL: appBaseURL,
	}
}

func (n *SendGridNotifier) SendInvitation(ctx context.Context, inv Invitation) error {
	subject := fmt.Sprintf("%s invited you to join %s", inv.InvitedByName, inv.OrganizationName)
	acceptURL := fmt.Sprintf("%s/invitations/%s", n.appBaseURL, inv.InvitationID)
	plain := fmt.Sprintf(
		"%s has invited you to join %s.\n\nAccept the invitation here: %s\n\nThis invitation expires in 7 days.",
		inv.InvitedByName, inv.OrganizationName, acceptURL,
	)
	html := fmt.Sprintf(
		"<p>%s has invited you to join <strong>%s</strong>.</p><p><a href=%q>Accept the invitation</a></p><p>This invitation expires in 7 days.</p>",
		inv.InvitedByName, inv.OrganizationName, acceptURL,
	)

	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail("", inv.To), plain, html)
	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
