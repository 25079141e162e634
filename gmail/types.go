package gmail

import "time"

// Message holds the essential information extracted from a Gmail message.
// It is the immutable input to classification and triage.
type Message struct {
	ID           string
	ThreadID     string
	Sender       string
	Subject      string
	Snippet      string
	Body         string // Full plain text body
	ReceivedAt   time.Time
	InternalDate int64 // For stable arrival ordering
}
