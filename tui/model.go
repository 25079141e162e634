package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mailvox/mailvox/config"
	"github.com/mailvox/mailvox/speech"
	"github.com/mailvox/mailvox/triage"
	"github.com/mailvox/mailvox/voice"
)

type viewState int

const (
	viewLoading viewState = iota
	viewBriefing
)

const (
	emailListItemHeight = 4
	minListPaneWidth    = 30
	minPreviewPaneWidth = 40
)

// Deps are the collaborators the briefing needs. All are constructed
// in main before the program starts.
type Deps struct {
	Cfg        *config.Config
	Fetcher    Fetcher
	Summarizer triage.Summarizer
	Speaker    speech.Speaker
	Recognizer speech.Recognizer
	Sender     voice.ReplySender
}

type Model struct {
	ctx  context.Context
	deps Deps

	plan          *triage.Plan
	session       *voice.Session
	sessionCancel context.CancelFunc
	sessionGen    int

	currentView viewState
	phase       voice.Phase
	index       int
	replyText   string
	sessionDone bool

	viewportTopLine int

	width, height int
	statusBarText string
	statusIsError bool
	statusIsTemp  bool

	err error
}

func NewInitialModel(ctx context.Context, deps Deps) Model {
	return Model{
		ctx:           ctx,
		deps:          deps,
		currentView:   viewLoading,
		statusBarText: "Connecting to Gmail and preparing your briefing...",
	}
}

func (m Model) Init() tea.Cmd {
	log.Println("TUI Model Init called")
	return tea.Batch(
		loadPlanCmd(m.ctx, m.deps.Fetcher, m.deps.Summarizer, m.deps.Cfg.Gmail.LookbackHours),
		statusTickCmd(1*time.Second),
	)
}

func (m Model) getVisibleEmailListHeight() int {
	statusBarHeight := 1
	listTitleRenderedHeight := lipgloss.Height(EmailListTitleStyle.Render(" "))
	availableHeight := m.height - statusBarHeight - listTitleRenderedHeight
	if availableHeight < 0 {
		availableHeight = 0
	}
	return availableHeight
}

func (m Model) getNumItemsThatFitInList() int {
	numFit := m.getVisibleEmailListHeight() / emailListItemHeight
	if numFit < 0 {
		numFit = 0
	}
	return numFit
}

// startSession builds and launches the voice session for the loaded
// plan. The session runs in its own goroutine; the update loop only
// observes it through events and steers it through Command.
func (m *Model) startSession() tea.Cmd {
	s := voice.NewSession(m.plan, m.deps.Speaker, m.deps.Recognizer, m.deps.Sender, m.deps.Cfg.Voice)
	sctx, cancel := context.WithCancel(m.ctx)
	m.session = s
	m.sessionCancel = cancel
	m.sessionGen++
	m.sessionDone = false
	go func() {
		if err := s.Run(sctx); err != nil {
			log.Printf("TUI: voice session ended with error: %v", err)
		}
	}()
	return waitForEventCmd(m.sessionGen, s.Events())
}

func (m *Model) command(in voice.Intent) {
	if m.session == nil || m.sessionDone {
		return
	}
	m.session.Command(in)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.updateStatusBar("Quitting...")
			return m, tea.Quit
		}
		if m.currentView != viewBriefing {
			if m.err != nil && msg.String() == "R" {
				m.err = nil
				m.updateStatusBar("Retrying...")
				cmds = append(cmds, loadPlanCmd(m.ctx, m.deps.Fetcher, m.deps.Summarizer, m.deps.Cfg.Gmail.LookbackHours))
			}
			break
		}
		switch msg.String() {
		case "n", "right":
			m.command(voice.IntentNext)
		case "b", "left":
			m.command(voice.IntentPrevious)
		case " ":
			if m.phase == voice.PhasePaused {
				m.command(voice.IntentResume)
			} else {
				m.command(voice.IntentPause)
			}
		case "s":
			m.command(voice.IntentStop)
		case "r":
			m.command(voice.IntentReply)
		case "v":
			m.command(voice.IntentListen)
		case "R":
			// Fresh batch: drop the running session and refetch.
			if m.sessionCancel != nil {
				m.sessionCancel()
			}
			m.session = nil
			m.currentView = viewLoading
			m.updateStatusBar("Refreshing...")
			cmds = append(cmds, loadPlanCmd(m.ctx, m.deps.Fetcher, m.deps.Summarizer, m.deps.Cfg.Gmail.LookbackHours))
		}

	case PlanReadyMsg:
		m.plan = msg.Plan
		m.err = nil
		m.index = 0
		m.phase = voice.PhaseIdle
		m.replyText = ""
		m.currentView = viewBriefing
		m.setStandardStatus()
		m.ensureSelectedVisible()
		cmds = append(cmds, m.startSession())

	case SessionEventMsg:
		if msg.Gen != m.sessionGen || m.session == nil {
			break
		}
		ev := msg.Event
		m.phase = ev.Phase
		m.index = ev.Index
		m.replyText = ev.ReplyText
		m.ensureSelectedVisible()
		if ev.Status != "" {
			m.showTemporaryStatus(ev.Status, 4*time.Second, &cmds)
		}
		cmds = append(cmds, waitForEventCmd(msg.Gen, m.session.Events()))

	case SessionDoneMsg:
		if msg.Gen != m.sessionGen {
			break
		}
		m.sessionDone = true
		m.phase = voice.PhaseIdle
		if !m.statusIsTemp {
			m.updateStatusBar("Briefing finished. [Q] to quit.")
		}
		log.Println("TUI: voice session closed its event stream.")

	case ErrorMsg:
		m.err = msg.Err
		m.updateStatusError(fmt.Sprintf("Error: %v. Press R to retry.", msg.Err))

	case StatusTickMsg:
		if !m.statusIsTemp && m.currentView == viewBriefing && !m.sessionDone {
			m.setStandardStatus()
		}
		cmds = append(cmds, statusTickCmd(1*time.Second))

	case clearTempStatusMsg:
		if m.statusIsTemp {
			m.statusIsTemp = false
			m.setStandardStatus()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) showTemporaryStatus(text string, duration time.Duration, cmds *[]tea.Cmd) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = true
	*cmds = append(*cmds, tea.Tick(duration, func(t time.Time) tea.Msg {
		return clearTempStatusMsg{}
	}))
}

func (m *Model) updateStatusBar(text string) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = false
}

func (m *Model) updateStatusError(text string) {
	m.statusBarText = text
	m.statusIsError = true
	m.statusIsTemp = false
}

func (m *Model) setStandardStatus() {
	if m.statusIsTemp {
		return
	}

	count := 0
	if m.plan != nil {
		count = len(m.plan.Items)
	}
	statusMsg := fmt.Sprintf(" %s | %s | %d emails ",
		m.phase, time.Now().Format("15:04:05"), count)

	keyHints := "[Q]:Quit | [N/B]:Next/Back | [Space]:Pause | [S]:Stop | [R]:Reply | [V]:Voice | [Shift+R]:Refresh"
	m.updateStatusBar(statusMsg + "| " + keyHints)
}

func (m *Model) ensureSelectedVisible() {
	if m.plan == nil || len(m.plan.Items) == 0 {
		m.viewportTopLine = 0
		return
	}

	itemsThatFit := m.getNumItemsThatFitInList()
	if itemsThatFit <= 0 {
		m.viewportTopLine = m.index
		return
	}

	if m.index < m.viewportTopLine {
		m.viewportTopLine = m.index
	} else if m.index >= m.viewportTopLine+itemsThatFit {
		m.viewportTopLine = m.index - itemsThatFit + 1
	}

	if m.viewportTopLine < 0 {
		m.viewportTopLine = 0
	}
	maxPossibleViewportTop := len(m.plan.Items) - itemsThatFit
	if maxPossibleViewportTop < 0 {
		maxPossibleViewportTop = 0
	}
	if m.viewportTopLine > maxPossibleViewportTop {
		m.viewportTopLine = maxPossibleViewportTop
	}
}
