// Package classify labels each email with a category, a priority and a
// skip decision using deterministic signal scoring. Classification is
// pure and total: malformed input degrades to other/normal, never an
// error.
package classify

import (
	"strings"

	"github.com/mailvox/mailvox/gmail"
)

type Category string

const (
	CategoryWork   Category = "work"
	CategorySchool Category = "school"
	CategoryEvents Category = "events"
	CategoryOffers Category = "offers"
	CategoryOther  Category = "other"
	CategoryJunk   Category = "junk"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Result is the classification record for one message.
// Invariant: ShouldSkip is true iff Category is junk.
type Result struct {
	Category   Category
	Priority   Priority
	ShouldSkip bool
}

// Classify scores a message against the junk, category and priority
// signal sets. Junk short-circuits: once the junk score clears its
// threshold no category scoring runs.
func Classify(m gmail.Message) Result {
	f := Extract(m)

	if junkScore(f) >= junkThreshold {
		return Result{Category: CategoryJunk, Priority: PriorityNormal, ShouldSkip: true}
	}

	category := CategoryOther
	for _, sig := range categoryOrder {
		if categoryScore(f, sig) >= sig.threshold {
			category = sig.category
			break
		}
	}

	return Result{Category: category, Priority: priority(f), ShouldSkip: false}
}

func junkScore(f Fields) int {
	score := 0
	if containsAny(f.Sender, junkSenderPatterns) {
		score += 3
	}
	if containsAny(f.Body, optOutPhrases) {
		score += 4
	}
	switch n := countMatches(f.Subject, spamSubjectPhrases); {
	case n >= 2:
		score += 3
	case n == 1:
		score += 1
	}
	if countMatches(f.Body, promoBodyPhrases) >= 3 {
		score += 2
	}
	if containsAny(f.Subject, newsletterSubjectMarkers) || containsAny(f.Sender, newsletterSenderMarkers) {
		score += 2
	}
	return score
}

func categoryScore(f Fields, sig categorySignals) int {
	score := 0
	for _, d := range sig.domains {
		if strings.Contains(f.Sender, d.pattern) {
			score += d.weight
		}
	}
	for _, t := range sig.tools {
		if strings.Contains(f.Sender, t.pattern) {
			score += t.weight
		}
	}
	text := f.Subject + " " + f.Body
	score += 2 * countMatches(text, sig.strong)
	score += countMatches(text, sig.moderate)
	return score
}

// priority is independent of category: any urgency keyword in subject
// or body makes the message high priority.
func priority(f Fields) Priority {
	text := f.Subject + " " + f.Body
	if containsAny(text, urgencyKeywords) {
		return PriorityHigh
	}
	return PriorityNormal
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// countMatches counts distinct patterns present, not occurrences.
func countMatches(s string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(s, p) {
			n++
		}
	}
	return n
}
