package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/verify-dispatch/internal/domain"
)

// Mailer sends messages through SendGrid's v3 mail send API. A fresh client
// is built per call around the resolved API key so the key never outlives
// the request.
type Mailer struct{}

func NewMailer() *Mailer { return &Mailer{} }

// Send dispatches msg and returns an error unless SendGrid answers 202
// Accepted. "Accepted" means queued for delivery, not delivered; there is
// no partial-success state and no retry.
func (m *Mailer) Send(ctx context.Context, apiKey string, msg *domain.EmailMessage) error {
	v3 := mail.NewV3MailInit(
		mail.NewEmail("", msg.From),
		msg.Subject,
		mail.NewEmail("", msg.To),
		mail.NewContent("text/plain", msg.PlainText),
		mail.NewContent("text/html", msg.HTML),
	)
	if msg.ListUnsubscribe != "" {
		v3.Personalizations[0].SetHeader("List-Unsubscribe", msg.ListUnsubscribe)
	}

	resp, err := sendgrid.NewSendClient(apiKey).SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
