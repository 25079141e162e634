package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mailvox/mailvox/config"
	"github.com/mailvox/mailvox/gmail"
)

func testSummaryConfig() config.SummaryConfig {
	return config.SummaryConfig{Model: "gemini-1.5-flash", MinChars: 50}
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestSummarizeShortInputBypassesAI(t *testing.T) {
	gen := &fakeGenerator{text: "should not be used"}
	g := &Gemini{gen: gen, minChars: 50}

	m := gmail.Message{Subject: "Hi", Snippet: "ok"}
	got := g.Summarize(context.Background(), m)
	if got.UsedAI {
		t.Error("UsedAI = true for short input")
	}
	if got.Text != "Subject: Hi\n\nok" {
		t.Errorf("Text = %q", got.Text)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestSummarizeUsesAI(t *testing.T) {
	gen := &fakeGenerator{text: "  Ada shares her engine notes.  "}
	g := &Gemini{gen: gen, minChars: 10}

	m := gmail.Message{
		Sender:  "ada@example.com",
		Subject: "Engine notes",
		Snippet: "Please find attached the notes from yesterday's analytical engine session.",
	}
	got := g.Summarize(context.Background(), m)
	if !got.UsedAI {
		t.Error("UsedAI = false, want true")
	}
	if got.Text != "Ada shares her engine notes." {
		t.Errorf("Text = %q, want trimmed generator output", got.Text)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestSummarizeFallsBackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	g := &Gemini{gen: gen, minChars: 10}

	m := gmail.Message{
		Sender:  "ada@example.com",
		Subject: "Engine notes",
		Snippet: "A long enough body to clear the bypass threshold easily.",
	}
	got := g.Summarize(context.Background(), m)
	if got.UsedAI {
		t.Error("UsedAI = true after generation failure")
	}
	want := "Email from ada@example.com, regarding Engine notes"
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestSummarizePrefersSnippetOverBody(t *testing.T) {
	gen := &fakeGenerator{text: "summary"}
	g := &Gemini{gen: gen, minChars: 1000}

	m := gmail.Message{Subject: "S", Snippet: "snip", Body: "full body"}
	got := g.Summarize(context.Background(), m)
	if !strings.Contains(got.Text, "snip") || strings.Contains(got.Text, "full body") {
		t.Errorf("Text = %q, want snippet-based bypass text", got.Text)
	}
}

func TestFallback(t *testing.T) {
	got := Fallback(gmail.Message{Sender: "bob@example.com", Subject: "Dinner"})
	if got != "Email from bob@example.com, regarding Dinner" {
		t.Errorf("got %q", got)
	}

	got = Fallback(gmail.Message{Subject: "Dinner"})
	if got != "Email from unknown sender, regarding Dinner" {
		t.Errorf("got %q", got)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), "", testSummaryConfig()); err == nil {
		t.Fatal("New with empty key succeeded, want error")
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello 🎉 world", "Hello world"},
		{"  spaced\n\tout  ", "spaced out"},
		{"plain", "plain"},
		{"☀ Sunny ☀", "Sunny"},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
