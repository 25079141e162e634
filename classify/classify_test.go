package classify

import (
	"testing"

	"github.com/mailvox/mailvox/gmail"
)

func TestClassifyJunkShortCircuits(t *testing.T) {
	m := gmail.Message{
		Sender:  "newsletter@deals.com",
		Subject: "50% off - Limited time - Act now",
		Body:    "Click here. To stop hearing from us, unsubscribe below.",
	}
	got := Classify(m)
	if got.Category != CategoryJunk {
		t.Fatalf("Category = %q, want junk", got.Category)
	}
	if !got.ShouldSkip {
		t.Error("ShouldSkip = false, want true for junk")
	}
	if got.Priority != PriorityNormal {
		t.Errorf("Priority = %q, want normal for junk", got.Priority)
	}
}

func TestJunkScoreComponents(t *testing.T) {
	// Sender pattern (3) + opt-out phrase (4) + two spam subject
	// phrases (3) and nothing else.
	f := Extract(gmail.Message{
		Sender:  "newsletter@deals.com",
		Subject: "50% off - Limited time - Act now",
		Body:    "unsubscribe",
	})
	if got := junkScore(f); got != 10 {
		t.Fatalf("junkScore = %d, want 10", got)
	}
}

func TestJunkSingleSpamPhraseScoresOne(t *testing.T) {
	f := Extract(gmail.Message{
		Sender:  "alice@example.com",
		Subject: "Limited time to submit feedback",
		Body:    "Thanks for participating.",
	})
	if got := junkScore(f); got != 1 {
		t.Fatalf("junkScore = %d, want 1", got)
	}
}

func TestClassifySchoolDomain(t *testing.T) {
	m := gmail.Message{
		Sender:  "ta@university.edu",
		Subject: "Assignment due Friday",
	}
	got := Classify(m)
	if got.Category != CategorySchool {
		t.Fatalf("Category = %q, want school", got.Category)
	}
	if got.ShouldSkip {
		t.Error("ShouldSkip = true for a school email")
	}
}

func TestWorkPrecedesSchoolWhenBothQualify(t *testing.T) {
	// A .edu sender qualifies for school, but the work keywords clear
	// the work threshold first in the scan order.
	m := gmail.Message{
		Sender:  "prof@cs.university.edu",
		Subject: "Project meeting",
		Body:    "The client deadline moved. Updated agenda attached.",
	}
	got := Classify(m)
	if got.Category != CategoryWork {
		t.Fatalf("Category = %q, want work", got.Category)
	}
}

func TestClassifyEvents(t *testing.T) {
	m := gmail.Message{
		Sender:  "invites@eventbrite.com",
		Subject: "You're invited: Go meetup",
		Body:    "RSVP by Thursday to reserve your spot at the venue.",
	}
	if got := Classify(m); got.Category != CategoryEvents {
		t.Fatalf("Category = %q, want events", got.Category)
	}
}

func TestClassifyOffers(t *testing.T) {
	m := gmail.Message{
		Sender:  "promo@amazon.com",
		Subject: "Your weekend deal",
		Body:    "Save 20 dollars with discount code SAVE20.",
	}
	got := Classify(m)
	if got.Category != CategoryOffers {
		t.Fatalf("Category = %q, want offers", got.Category)
	}
	if got.ShouldSkip {
		t.Error("offers must not be skipped, only aggregated")
	}
}

func TestClassifyDegenerateMessage(t *testing.T) {
	got := Classify(gmail.Message{})
	want := Result{Category: CategoryOther, Priority: PriorityNormal, ShouldSkip: false}
	if got != want {
		t.Fatalf("Classify(empty) = %+v, want %+v", got, want)
	}
}

func TestUrgencyPriority(t *testing.T) {
	m := gmail.Message{
		Sender:  "boss@company.com",
		Subject: "URGENT: production incident",
		Body:    "Need eyes on this right away.",
	}
	if got := Classify(m); got.Priority != PriorityHigh {
		t.Fatalf("Priority = %q, want high", got.Priority)
	}

	calm := gmail.Message{Sender: "boss@company.com", Subject: "Lunch next week"}
	if got := Classify(calm); got.Priority != PriorityNormal {
		t.Fatalf("Priority = %q, want normal", got.Priority)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	m := gmail.Message{
		Sender:  "newsletter@deals.com",
		Subject: "50% off - Limited time - Act now",
		Body:    "unsubscribe",
	}
	first := Classify(m)
	for i := 0; i < 3; i++ {
		if got := Classify(m); got != first {
			t.Fatalf("Classify not idempotent: %+v != %+v", got, first)
		}
	}
}

func TestSkipInvariant(t *testing.T) {
	// ShouldSkip must be true exactly when the category is junk.
	msgs := []gmail.Message{
		{},
		{Sender: "newsletter@deals.com", Subject: "Act now - free gift", Body: "unsubscribe"},
		{Sender: "ta@university.edu", Subject: "Exam schedule"},
		{Sender: "noreply@updates.com", Subject: "Your digest", Body: "manage preferences"},
	}
	for _, m := range msgs {
		got := Classify(m)
		if got.ShouldSkip != (got.Category == CategoryJunk) {
			t.Errorf("invariant broken for %q: %+v", m.Sender, got)
		}
	}
}

func TestExtractLowercases(t *testing.T) {
	f := Extract(gmail.Message{Sender: "TA@University.EDU", Subject: "MidTerm", Body: "STUDY"})
	if f.Sender != "ta@university.edu" || f.Subject != "midterm" || f.Body != "study" {
		t.Fatalf("Extract did not lowercase: %+v", f)
	}
}
