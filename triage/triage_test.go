package triage

import (
	"context"
	"strings"
	"testing"

	"github.com/mailvox/mailvox/classify"
	"github.com/mailvox/mailvox/gmail"
	"github.com/mailvox/mailvox/summarize"
)

// fakeSummarizer returns a deterministic summary per subject and
// records which messages it saw.
type fakeSummarizer struct {
	seen []string
	text func(m gmail.Message) string
}

func (f *fakeSummarizer) Summarize(_ context.Context, m gmail.Message) summarize.Summary {
	f.seen = append(f.seen, m.Subject)
	if f.text != nil {
		return summarize.Summary{Text: f.text(m), UsedAI: false}
	}
	return summarize.Summary{Text: "About " + m.Subject, UsedAI: true}
}

func rec(cat classify.Category, prio classify.Priority, subject string) Record {
	return Record{
		Message: gmail.Message{Subject: subject},
		Result: classify.Result{
			Category:   cat,
			Priority:   prio,
			ShouldSkip: cat == classify.CategoryJunk,
		},
	}
}

func TestFilterJunk(t *testing.T) {
	in := []Record{
		rec(classify.CategoryWork, classify.PriorityNormal, "a"),
		rec(classify.CategoryJunk, classify.PriorityNormal, "b"),
		rec(classify.CategoryOther, classify.PriorityNormal, "c"),
	}
	out := FilterJunk(in)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Message.Subject != "a" || out[1].Message.Subject != "c" {
		t.Errorf("wrong records kept: %v, %v", out[0].Message.Subject, out[1].Message.Subject)
	}
}

func TestGroupByCategoryKeys(t *testing.T) {
	groups := GroupByCategory([]Record{
		rec(classify.CategoryWork, classify.PriorityNormal, "w"),
		rec(classify.CategoryJunk, classify.PriorityNormal, "j"),
	})

	for _, cat := range []classify.Category{
		classify.CategoryWork, classify.CategorySchool, classify.CategoryEvents,
		classify.CategoryOffers, classify.CategoryOther,
	} {
		if _, ok := groups[cat]; !ok {
			t.Errorf("missing key %q", cat)
		}
	}
	if _, ok := groups[classify.CategoryJunk]; ok {
		t.Error("junk must never be a group key")
	}
	if len(groups[classify.CategoryWork]) != 1 {
		t.Errorf("work group len = %d, want 1", len(groups[classify.CategoryWork]))
	}
}

func TestSortByPriorityStable(t *testing.T) {
	in := []Record{
		rec(classify.CategoryWork, classify.PriorityNormal, "n1"),
		rec(classify.CategoryWork, classify.PriorityHigh, "h1"),
		rec(classify.CategoryWork, classify.PriorityNormal, "n2"),
		rec(classify.CategoryWork, classify.PriorityHigh, "h2"),
	}
	out := SortByPriority(in)
	got := []string{}
	for _, r := range out {
		got = append(got, r.Message.Subject)
	}
	want := []string{"h1", "h2", "n1", "n2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if in[0].Message.Subject != "n1" {
		t.Error("SortByPriority mutated its input")
	}
}

func TestBuildPlanOrderingAndCounts(t *testing.T) {
	msgs := []gmail.Message{
		{Sender: "friend@gmail.com", Subject: "Lunch?"},
		{Sender: "boss@slack.com", Subject: "URGENT: sprint blocker", Body: "Need this fixed right away."},
		{Sender: "boss@slack.com", Subject: "Sprint planning meeting"},
		{Sender: "ta@university.edu", Subject: "Assignment due Friday"},
		{Sender: "newsletter@deals.com", Subject: "50% off - Limited time - Act now", Body: "unsubscribe"},
		{Sender: "promo@amazon.com", Subject: "Weekend deal", Body: "Use discount code SAVE20 to save."},
		{Sender: "invites@eventbrite.com", Subject: "You're invited: Go meetup", Body: "RSVP soon."},
	}
	fake := &fakeSummarizer{}
	plan := BuildPlan(context.Background(), msgs, fake, 6)

	if plan.JunkCount != 1 {
		t.Errorf("JunkCount = %d, want 1", plan.JunkCount)
	}
	if plan.OffersCount != 1 {
		t.Errorf("OffersCount = %d, want 1", plan.OffersCount)
	}

	// Offers and junk are never narrated; order is work (high first),
	// school, events, other.
	wantSubjects := []string{
		"URGENT: sprint blocker",
		"Sprint planning meeting",
		"Assignment due Friday",
		"You're invited: Go meetup",
		"Lunch?",
	}
	if len(plan.Items) != len(wantSubjects) {
		t.Fatalf("len(Items) = %d, want %d", len(plan.Items), len(wantSubjects))
	}
	for i, want := range wantSubjects {
		if got := plan.Items[i].Message.Subject; got != want {
			t.Errorf("Items[%d] = %q, want %q", i, got, want)
		}
	}

	first := plan.Items[0].SpokenText
	if !strings.HasPrefix(first, "Email 1 of 5. From boss@slack.com. Subject: URGENT: sprint blocker.") {
		t.Errorf("unexpected spoken text: %q", first)
	}
	if !strings.Contains(first, "About URGENT: sprint blocker") {
		t.Errorf("spoken text missing summary: %q", first)
	}

	summary := plan.Summary
	for _, want := range []string{
		"You have 6 new emails.",
		"1 junk email was filtered out.",
		"2 work, 1 school, 1 events, 1 other.",
		"You also have 1 promotional offer.",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q in %q", want, summary)
		}
	}
}

func TestBuildPlanEmptyBatch(t *testing.T) {
	fake := &fakeSummarizer{}
	plan := BuildPlan(context.Background(), nil, fake, 12)
	if len(plan.Items) != 0 {
		t.Fatalf("len(Items) = %d, want 0", len(plan.Items))
	}
	if plan.Summary != "You have no new messages in the last 12 hours" {
		t.Errorf("Summary = %q", plan.Summary)
	}
	if len(fake.seen) != 0 {
		t.Error("summarizer called for empty batch")
	}
}

func TestBuildPlanAllJunk(t *testing.T) {
	msgs := []gmail.Message{
		{Sender: "newsletter@deals.com", Subject: "Act now - free gift", Body: "unsubscribe"},
	}
	plan := BuildPlan(context.Background(), msgs, &fakeSummarizer{}, 6)
	if len(plan.Items) != 0 || plan.JunkCount != 1 {
		t.Fatalf("Items = %d, JunkCount = %d", len(plan.Items), plan.JunkCount)
	}
	if plan.Summary != "You have no new messages in the last 6 hours" {
		t.Errorf("Summary = %q", plan.Summary)
	}
}

func TestFormatForSpeech(t *testing.T) {
	m := gmail.Message{Sender: "Ada Lovelace <ada@example.com>", Subject: "Engine notes"}

	got := FormatForSpeech(m, "Sends her notes.", 2, 5)
	want := "Email 2 of 5. From Ada Lovelace. Subject: Engine notes. Sends her notes."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// No usable summary drops the trailing clause.
	for _, summary := range []string{"", "Summary unavailable"} {
		got := FormatForSpeech(m, summary, 1, 1)
		want := "Email 1 of 1. From Ada Lovelace. Subject: Engine notes."
		if got != want {
			t.Errorf("summary %q: got %q, want %q", summary, got, want)
		}
	}
}

func TestSenderName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ada Lovelace <ada@example.com>", "Ada Lovelace"},
		{"ada@example.com", "ada@example.com"},
		{"<ada@example.com>", "ada@example.com"},
		{"not an address at all <<", "not an address at all <<"},
	}
	for _, c := range cases {
		if got := SenderName(c.in); got != c.want {
			t.Errorf("SenderName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
