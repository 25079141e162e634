package classify

import (
	"strings"

	"github.com/mailvox/mailvox/gmail"
)

// Fields are the normalized signal inputs pulled out of a message:
// sender, subject and body, all lower-cased. Absent values come back
// as empty strings, never anything a caller has to nil-check.
type Fields struct {
	Sender  string
	Subject string
	Body    string
}

// Extract normalizes a message for scoring. Side-effect free.
func Extract(m gmail.Message) Fields {
	return Fields{
		Sender:  strings.ToLower(m.Sender),
		Subject: strings.ToLower(m.Subject),
		Body:    strings.ToLower(m.Body),
	}
}
