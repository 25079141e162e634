package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen briefing program and blocks until it
// exits. Cancelling ctx tears the program down.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(
		NewInitialModel(ctx, deps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
