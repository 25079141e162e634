package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mailvox/mailvox/classify"
	"github.com/mailvox/mailvox/triage"
)

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatEmailDate formats the date for display in the briefing list.
func formatEmailDate(t time.Time) string {
	if t.IsZero() {
		return "???"
	}
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Local().Format("15:04")
	}
	return t.Local().Format("Jan02")
}

// formatBriefingListItem formats one plan item for the list view.
// itemContentTextWidth is the width for the text inside the box lines.
func formatBriefingListItem(item triage.Item, isSelected bool, itemContentTextWidth int) string {
	var boxCharStyle, subjectStyle, secondaryTextStyle lipgloss.Style
	var itemBlockStyle lipgloss.Style

	if isSelected {
		boxCharStyle = SelectedBoxCharStyle
		subjectStyle = SelectedSubjectStyle
		secondaryTextStyle = SelectedSecondaryTextStyle
		itemBlockStyle = SelectedEmailListItemStyle
	} else {
		boxCharStyle = NormalBoxCharStyle
		subjectStyle = NormalSubjectStyle
		secondaryTextStyle = NormalSecondaryTextStyle
		itemBlockStyle = EmailListItemStyle
	}

	subject := item.Message.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	if item.Result.Priority == classify.PriorityHigh {
		subject = "! " + subject
	}
	truncatedSubject := truncate(subject, itemContentTextWidth)
	paddedSubjectText := fmt.Sprintf("%-*s", itemContentTextWidth, truncatedSubject)

	fromShort := triage.SenderName(item.Message.Sender)
	if fromShort == "" {
		fromShort = "(Unknown Sender)"
	}
	secondary := fmt.Sprintf("[%s] %s", item.Result.Category, fromShort)
	dateStr := formatEmailDate(item.Message.ReceivedAt)

	maxSecondaryLen := itemContentTextWidth - len(dateStr) - 1
	if maxSecondaryLen < 1 {
		secondary = ""
		if len(dateStr) > itemContentTextWidth {
			dateStr = truncate(dateStr, itemContentTextWidth)
		}
	} else {
		secondary = truncate(secondary, maxSecondaryLen)
	}

	var combined string
	if secondary != "" {
		combined = fmt.Sprintf("%s %s", secondary, dateStr)
	} else {
		combined = dateStr
	}
	if len(combined) > itemContentTextWidth {
		combined = truncate(combined, itemContentTextWidth)
	}
	paddedSecondaryText := fmt.Sprintf("%-*s", itemContentTextWidth, combined)

	horizontalBar := strings.Repeat(BoxHorizontal, itemContentTextWidth+2)

	line1 := fmt.Sprintf("%s%s%s",
		boxCharStyle.Render(BoxTopLeft),
		boxCharStyle.Render(horizontalBar),
		boxCharStyle.Render(BoxTopRight),
	)
	line2 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		subjectStyle.Render(paddedSubjectText),
		boxCharStyle.Render(BoxVertical),
	)
	line3 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		secondaryTextStyle.Render(paddedSecondaryText),
		boxCharStyle.Render(BoxVertical),
	)
	line4 := fmt.Sprintf("%s%s%s",
		boxCharStyle.Render(BoxBottomLeft),
		boxCharStyle.Render(horizontalBar),
		boxCharStyle.Render(BoxBottomRight),
	)

	return itemBlockStyle.Render(strings.Join([]string{line1, line2, line3, line4}, "\n"))
}
