package dispatch

import (
	"fmt"

	"github.com/verify-dispatch/internal/domain"
)

const subject = "Verify Your Email Address"

const plainTextTemplate = `
Dear User,

Thank you for signing up. Please verify your email address by clicking the link below:
%s

This link will expire in 2 minutes. If you did not sign up, please ignore this email.

To manage your email preferences or unsubscribe, please visit:
%s

Regards,
The CloudJourney Team
`

const htmlTemplate = `
<html>
    <body>
        <p>Dear User,</p>
        <p>Thank you for signing up. Please verify your email address by clicking the link below:</p>
        <p><a href="%[1]s">%[1]s</a></p>
        <p>This link will expire in 2 minutes. If you did not sign up, please ignore this email.</p>
        <p>To manage your email preferences or unsubscribe, please click <a href="%[2]s">here</a>.</p>
        <p>Regards,<br>The CloudJourney Team</p>
    </body>
</html>
`

// renderMessage builds the outbound message for one recipient. The
// List-Unsubscribe header carries both a mailto and an HTTP target, which
// mail providers expect for bulk senders.
func renderMessage(from, to, unsubscribeMailto, verifyURL, unsubscribeURL string) *domain.EmailMessage {
	return &domain.EmailMessage{
		From:            from,
		To:              to,
		Subject:         subject,
		PlainText:       fmt.Sprintf(plainTextTemplate, verifyURL, unsubscribeURL),
		HTML:            fmt.Sprintf(htmlTemplate, verifyURL, unsubscribeURL),
		ListUnsubscribe: fmt.Sprintf("<mailto:%s>, <%s>", unsubscribeMailto, unsubscribeURL),
	}
}
