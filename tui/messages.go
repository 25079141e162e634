package tui

import (
	"time"

	"github.com/mailvox/mailvox/triage"
	"github.com/mailvox/mailvox/voice"
)

// A message carrying the finished announcement plan for a batch.
type PlanReadyMsg struct{ Plan *triage.Plan }

// A message to indicate an error occurred, typically from a command.
type ErrorMsg struct{ Err error }

// Error makes it compatible with the error interface.
func (e ErrorMsg) Error() string { return e.Err.Error() }

// A message for each voice session state change. Gen identifies which
// session instance it came from; events from a replaced session are
// stale and get dropped.
type SessionEventMsg struct {
	Gen   int
	Event voice.Event
}

// Message to signal a voice session finished and closed its stream.
type SessionDoneMsg struct{ Gen int }

// A message for timed status updates.
type StatusTickMsg struct{ Time time.Time }

// Message to clear a temporary status message after a timeout.
type clearTempStatusMsg struct{}
