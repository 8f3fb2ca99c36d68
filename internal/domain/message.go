package domain

// EmailMessage is a fully rendered outbound message. Built fresh per request
// and handed to the mailer; never persisted.
type EmailMessage struct {
	From            string
	To              string
	Subject         string
	PlainText       string
	HTML            string
	ListUnsubscribe string // value of the List-Unsubscribe header
}
