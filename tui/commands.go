package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mailvox/mailvox/gmail"
	"github.com/mailvox/mailvox/triage"
	"github.com/mailvox/mailvox/voice"
)

// Fetcher retrieves the batch of messages to triage.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]gmail.Message, error)
}

// loadPlanCmd fetches the batch and builds the announcement plan.
// Summarization happens here, before narration starts, so each item
// already carries its spoken text.
func loadPlanCmd(ctx context.Context, fetcher Fetcher, summarizer triage.Summarizer, lookbackHours int) tea.Cmd {
	return func() tea.Msg {
		msgs, err := fetcher.FetchAll(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return PlanReadyMsg{Plan: triage.BuildPlan(ctx, msgs, summarizer, lookbackHours)}
	}
}

// waitForEventCmd relays one voice session event into the update loop.
// It re-queues itself until the session closes its stream.
func waitForEventCmd(gen int, events <-chan voice.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return SessionDoneMsg{Gen: gen}
		}
		return SessionEventMsg{Gen: gen, Event: ev}
	}
}

// statusTickCmd creates a ticker for updating the status bar periodically.
func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StatusTickMsg{Time: t}
	})
}
