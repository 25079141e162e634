package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mailvox/mailvox/classify"
	"github.com/mailvox/mailvox/voice"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}

	var mainUIView string
	statusBarHeight := 1
	contentHeight := m.height - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	switch m.currentView {
	case viewLoading:
		loadingText := "Fetching and summarizing your emails..."
		if m.err != nil {
			loadingText = fmt.Sprintf("Failed to load briefing:\n\n%v\n\nPress R to retry, Q to quit.", m.err)
		}
		mainUIView = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loadingText)

	case viewBriefing:
		listPaneTargetWidth := int(float64(m.width) * 0.35)
		actualListPaneWidth := listPaneTargetWidth
		if actualListPaneWidth < minListPaneWidth {
			actualListPaneWidth = minListPaneWidth
		}
		if actualListPaneWidth > m.width-minPreviewPaneWidth && m.width > minPreviewPaneWidth {
			actualListPaneWidth = m.width - minPreviewPaneWidth
		}
		if actualListPaneWidth < 0 {
			actualListPaneWidth = 0
		}
		if actualListPaneWidth > m.width {
			actualListPaneWidth = m.width
		}

		actualPreviewPaneWidth := m.width - actualListPaneWidth
		if actualPreviewPaneWidth < 0 {
			actualPreviewPaneWidth = 0
		}

		if m.width < minListPaneWidth+minPreviewPaneWidth {
			if m.width < minListPaneWidth {
				actualListPaneWidth = m.width
				actualPreviewPaneWidth = 0
			} else {
				actualListPaneWidth = minListPaneWidth
				actualPreviewPaneWidth = m.width - actualListPaneWidth
			}
		}

		emailListRendered := m.renderEmailList(actualListPaneWidth, contentHeight)
		narrationRendered := m.renderNarrationPane(actualPreviewPaneWidth, contentHeight)

		mainUIView = lipgloss.JoinHorizontal(lipgloss.Top, emailListRendered, narrationRendered)
	}

	statusBarRendered := m.renderStatusBar()
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mainUIView, statusBarRendered))
}

func (m Model) renderEmailList(paneWidth, paneHeight int) string {
	title := EmailListTitleStyle.Render("Briefing")
	listItemsContainerHeight := paneHeight - lipgloss.Height(title)
	if listItemsContainerHeight < 0 {
		listItemsContainerHeight = 0
	}

	itemTextContentWidth := paneWidth - EmailListItemStyle.GetPaddingLeft() - EmailListItemStyle.GetPaddingRight() - 2 - 2
	if itemTextContentWidth < 10 {
		itemTextContentWidth = 10
	}

	numItemsToDisplay := listItemsContainerHeight / emailListItemHeight
	if numItemsToDisplay < 0 {
		numItemsToDisplay = 0
	}

	items := []string{}
	if m.plan != nil && paneWidth > 0 && paneHeight > 0 {
		startIdx := m.viewportTopLine
		endIdx := startIdx + numItemsToDisplay
		if startIdx < 0 {
			startIdx = 0
		}
		if startIdx > len(m.plan.Items) {
			startIdx = len(m.plan.Items)
		}
		if endIdx > len(m.plan.Items) {
			endIdx = len(m.plan.Items)
		}
		if endIdx < startIdx {
			endIdx = startIdx
		}
		for i := startIdx; i < endIdx; i++ {
			items = append(items, formatBriefingListItem(m.plan.Items[i], i == m.index, itemTextContentWidth))
		}
	}

	fullListRender := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(items, "\n"))
	return EmailListStyle.Width(paneWidth).Height(paneHeight).Render(fullListRender)
}

// renderNarrationPane shows the item being narrated, its spoken text
// and the session phase.
func (m Model) renderNarrationPane(paneWidth, paneHeight int) string {
	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Placeholder")
	maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
	if maxContentHeight < 0 {
		maxContentHeight = 0
	}

	var titleText, content string
	if m.plan == nil || len(m.plan.Items) == 0 || m.index < 0 || m.index >= len(m.plan.Items) {
		titleText = "Summary"
		summary := "No emails in this batch."
		if m.plan != nil {
			summary = m.plan.Summary
		}
		content = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Padding(1).Render(summary + "\n\n" + m.renderPhaseLine())
	} else {
		item := m.plan.Items[m.index]
		titleText = fmt.Sprintf("Email %d of %d", m.index+1, len(m.plan.Items))

		var b strings.Builder
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(truncate(item.Message.Sender, paneWidth-10))))
		dateStr := "N/A"
		if !item.Message.ReceivedAt.IsZero() {
			dateStr = item.Message.ReceivedAt.Local().Format(time.RFC1123)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(dateStr)))
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(truncate(item.Message.Subject, paneWidth-12))))
		b.WriteString(fmt.Sprintf("%s %s", HeaderKeyStyle.Render("Category:"), CategoryStyle.Render(string(item.Result.Category))))
		if item.Result.Priority == classify.PriorityHigh {
			b.WriteString("  " + PriorityHighStyle.Render("HIGH PRIORITY"))
		}
		b.WriteString("\n\n" + strings.Repeat("─", paneWidth/2) + "\n")
		b.WriteString(SpokenTextStyle.Render(item.SpokenText))
		b.WriteString("\n\n" + m.renderPhaseLine())
		if m.replyText != "" {
			b.WriteString("\n" + HeaderKeyStyle.Render("Reply:") + " " + truncate(m.replyText, paneWidth-10))
		}

		content = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Render(b.String())
	}

	styledTitle = TitleStyle.Render(titleText)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, content),
	)
}

func (m Model) renderPhaseLine() string {
	label := strings.ToUpper(m.phase.String())
	switch m.phase {
	case voice.PhaseSpeaking, voice.PhaseAnnouncingSummary:
		return PhaseSpeakingStyle.Render("▶ " + label)
	case voice.PhasePaused:
		return PhasePausedStyle.Render("⏸ " + label)
	case voice.PhaseListeningCommand, voice.PhaseListeningReply, voice.PhaseAwaitingConfirmation:
		return PhaseListeningStyle.Render("● " + label)
	default:
		return PhaseIdleStyle.Render(label)
	}
}

func (m Model) renderStatusBar() string {
	styleToUse := StatusBarNormalStyle
	if m.statusIsError {
		styleToUse = StatusBarErrorStyle
	} else if m.statusIsTemp {
		styleToUse = StatusBarSuccessStyle
	}
	return styleToUse.Width(m.width).Render(truncate(m.statusBarText, m.width))
}
