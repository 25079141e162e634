// Package summarize produces one spoken-length summary per email via
// the Gemini API, falling back to a deterministic template whenever
// the call fails. Summarize never returns an error to callers.
package summarize

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/mailvox/mailvox/config"
	"github.com/mailvox/mailvox/gmail"
	"google.golang.org/genai"
)

const promptTemplate = `You are an email assistant. Summarize this email in 1-2 concise sentences (max 50 words). Focus on the key action items or information.

Email:
%s

Summary:`

// Summary is the outcome of summarizing one email. UsedAI is false
// when the text came from the short-input bypass or the fallback
// template.
type Summary struct {
	Text   string
	UsedAI bool
}

type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Gemini summarizes emails with a fixed prompt against a Gemini model.
type Gemini struct {
	gen      generator
	minChars int
}

type genaiGenerator struct {
	client *genai.Client
	model  string
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.4),
		MaxOutputTokens: 100,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return sb.String(), nil
}

// New builds a Gemini summarizer. The API key comes from the
// GEMINI_API_KEY environment, resolved by the caller.
func New(ctx context.Context, apiKey string, cfg config.SummaryConfig) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini summarizer: missing API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{
		gen:      &genaiGenerator{client: client, model: cfg.Model},
		minChars: cfg.MinChars,
	}, nil
}

// Summarize returns a summary for one email. Very short source text
// bypasses the AI call and is used verbatim; any generation failure
// degrades to the "Email from X, regarding Y" template.
func (g *Gemini) Summarize(ctx context.Context, m gmail.Message) Summary {
	body := m.Snippet
	if body == "" {
		body = m.Body
	}
	subject := m.Subject
	if subject == "" {
		subject = "No Subject"
	}
	emailText := fmt.Sprintf("Subject: %s\n\n%s", subject, body)

	if len(emailText) < g.minChars {
		return Summary{Text: emailText, UsedAI: false}
	}

	text, err := g.gen.generate(ctx, fmt.Sprintf(promptTemplate, emailText))
	if err != nil {
		log.Printf("Summarize: falling back for %q: %v", m.Subject, err)
		return Summary{Text: Fallback(m), UsedAI: false}
	}
	return Summary{Text: strings.TrimSpace(text), UsedAI: true}
}

// Fallback is the deterministic template used when AI output is
// unavailable.
func Fallback(m gmail.Message) string {
	sender := m.Sender
	if sender == "" {
		sender = "unknown sender"
	}
	return fmt.Sprintf("Email from %s, regarding %s", sender, m.Subject)
}

var (
	emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// CleanText strips emoji and collapses whitespace so summaries and
// subjects read cleanly aloud.
func CleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(emojiRe.ReplaceAllString(s, ""), " "))
}
