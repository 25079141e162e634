// Package triage turns a batch of classified emails into the ordered
// announcement plan the voice session narrates.
package triage

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/mailvox/mailvox/classify"
	"github.com/mailvox/mailvox/gmail"
	"github.com/mailvox/mailvox/summarize"
)

// Summarizer is the external summarization collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, m gmail.Message) summarize.Summary
}

// Record pairs a message with its classification.
type Record struct {
	Message gmail.Message
	Result  classify.Result
}

// Item is one narratable entry of a plan.
type Item struct {
	Message    gmail.Message
	Result     classify.Result
	SpokenText string
}

// Plan is the ordered, grouped announcement sequence for one batch,
// owned by the voice session for the lifetime of a playback.
type Plan struct {
	Summary     string // leading utterance
	Items       []Item
	JunkCount   int
	OffersCount int
}

// Categories are announced in this fixed order. Offers are classified
// but aggregated into a spoken count instead of narrated one by one.
var announceOrder = []classify.Category{
	classify.CategoryWork,
	classify.CategorySchool,
	classify.CategoryEvents,
	classify.CategoryOther,
}

// FilterJunk drops every record marked skip.
func FilterJunk(in []Record) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if !r.Result.ShouldSkip {
			out = append(out, r)
		}
	}
	return out
}

// GroupByCategory buckets records by category, preserving input order
// within each bucket. Every non-junk category is present in the
// result, empty or not; junk is never a key.
func GroupByCategory(in []Record) map[classify.Category][]Record {
	groups := map[classify.Category][]Record{
		classify.CategoryWork:   {},
		classify.CategorySchool: {},
		classify.CategoryEvents: {},
		classify.CategoryOffers: {},
		classify.CategoryOther:  {},
	}
	for _, r := range in {
		if r.Result.Category == classify.CategoryJunk {
			continue
		}
		groups[r.Result.Category] = append(groups[r.Result.Category], r)
	}
	return groups
}

// SortByPriority orders high before normal, stable on ties.
func SortByPriority(in []Record) []Record {
	out := make([]Record, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Priority == classify.PriorityHigh &&
			out[j].Result.Priority != classify.PriorityHigh
	})
	return out
}

// BuildPlan classifies a batch, filters junk, orders what remains and
// attaches spoken text per item plus the leading summary utterance.
// lookbackHours only feeds the empty-batch message.
func BuildPlan(ctx context.Context, msgs []gmail.Message, s Summarizer, lookbackHours int) *Plan {
	records := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, Record{Message: m, Result: classify.Classify(m)})
	}

	kept := FilterJunk(records)
	junkCount := len(records) - len(kept)
	groups := GroupByCategory(kept)
	offersCount := len(groups[classify.CategoryOffers])

	ordered := make([]Record, 0, len(kept))
	for _, cat := range announceOrder {
		ordered = append(ordered, SortByPriority(groups[cat])...)
	}

	plan := &Plan{
		JunkCount:   junkCount,
		OffersCount: offersCount,
	}
	total := len(ordered)
	for i, r := range ordered {
		summary := s.Summarize(ctx, r.Message)
		plan.Items = append(plan.Items, Item{
			Message:    r.Message,
			Result:     r.Result,
			SpokenText: FormatForSpeech(r.Message, summary.Text, i+1, total),
		})
	}
	plan.Summary = summaryUtterance(groups, len(kept), junkCount, offersCount, lookbackHours)
	return plan
}

// FormatForSpeech renders the fixed announcement text for one email,
// dropping the summary clause when no usable summary exists.
func FormatForSpeech(m gmail.Message, summary string, index, total int) string {
	sender := SenderName(m.Sender)
	subject := summarize.CleanText(m.Subject)
	summary = summarize.CleanText(summary)
	if summary == "" || summary == "Summary unavailable" {
		return fmt.Sprintf("Email %d of %d. From %s. Subject: %s.", index, total, sender, subject)
	}
	return fmt.Sprintf("Email %d of %d. From %s. Subject: %s. %s", index, total, sender, subject, summary)
}

// SenderName extracts a speakable name from a From header, falling
// back to the raw value when it does not parse.
func SenderName(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return from
	}
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

func summaryUtterance(groups map[classify.Category][]Record, total, junkCount, offersCount, lookbackHours int) string {
	if total == 0 {
		return fmt.Sprintf("You have no new messages in the last %d hours", lookbackHours)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d new %s.", total, plural(total, "email", "emails"))
	if junkCount > 0 {
		fmt.Fprintf(&sb, " %d junk %s filtered out.", junkCount, plural(junkCount, "email was", "emails were"))
	}

	var parts []string
	for _, cat := range announceOrder {
		if n := len(groups[cat]); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, cat))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&sb, " %s.", strings.Join(parts, ", "))
	}
	if offersCount > 0 {
		fmt.Fprintf(&sb, " You also have %d promotional %s.", offersCount, plural(offersCount, "offer", "offers"))
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
