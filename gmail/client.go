package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mailvox/mailvox/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const user = "me"

// Client fetches and sends mail through the Gmail API.
type Client struct {
	srv *gmailapi.Service
	cfg config.GmailConfig
}

func NewClient(ctx context.Context, cfg config.GmailConfig) (*Client, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope, gmailapi.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient := getOAuthClient(oauthConfig, cfg.TokenFile)
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv, cfg: cfg}, nil
}

func getOAuthClient(config *oauth2.Config, tokenFile string) *http.Client {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok = getTokenFromWeb(config)
		saveToken(tokenFile, tok)
	}
	return config.Client(context.Background(), tok)
}

func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}
	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		log.Fatalf("Unable to retrieve token from web: %v", err)
	}
	return tok
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) {
	fmt.Printf("Saving credential file to: %s\n", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Fatalf("Unable to save oauth token: %v", err)
	}
	defer f.Close()
	json.NewEncoder(f).Encode(token)
}

// FetchAll returns every inbox message from the configured lookback
// window, newest first, capped at MaxEmails.
func (c *Client) FetchAll(ctx context.Context) ([]Message, error) {
	after := time.Now().Add(-time.Duration(c.cfg.LookbackHours) * time.Hour).Unix()
	query := fmt.Sprintf("after:%d in:inbox -in:draft", after)

	list, err := c.srv.Users.Messages.List(user).
		MaxResults(c.cfg.MaxEmails).
		Q(query).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		log.Printf("Gmail: no messages in the last %d hours", c.cfg.LookbackHours)
		return nil, nil
	}

	messages := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		full, err := c.srv.Users.Messages.Get(user, m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			log.Printf("Gmail: unable to retrieve full message %s: %v", m.Id, err)
			continue
		}
		messages = append(messages, parseMessage(full))
	}
	log.Printf("Gmail: fetched %d messages", len(messages))
	return messages, nil
}

func parseMessage(msg *gmailapi.Message) Message {
	out := Message{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		InternalDate: msg.InternalDate,
	}
	if msg.Payload == nil {
		return out
	}
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "Subject":
			out.Subject = header.Value
		case "From":
			out.Sender = header.Value
		case "Date":
			out.ReceivedAt = parseDate(header.Value)
		}
	}
	out.Body = getPlainTextBody(msg.Payload)
	return out
}

// parseDate tries the handful of formats Gmail headers show up in.
func parseDate(value string) time.Time {
	layouts := []string{
		time.RFC1123Z,
		"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2 Jan 2006 15:04:05 -0700",
		time.RFC1123,
		time.RFC822,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// Last try with a trailing "(TZ)" comment removed.
	trimmed := value
	if open := strings.LastIndex(trimmed, " ("); open != -1 {
		if close := strings.LastIndex(trimmed, ")"); close > open {
			trimmed = strings.TrimSpace(trimmed[:open] + trimmed[close+1:])
		}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	log.Printf("Gmail: could not parse date string %q", value)
	return time.Time{}
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

func getPlainTextBody(payload *gmailapi.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err != nil {
			log.Printf("Gmail: error decoding base64 body: %v", err)
		} else {
			switch {
			case payload.MimeType == "text/plain":
				return string(data)
			case payload.MimeType == "text/html":
				return stripHTML(string(data))
			}
		}
	}
	for _, part := range payload.Parts {
		mime := strings.ToLower(part.MimeType)
		if strings.HasPrefix(mime, "text/") || strings.HasPrefix(mime, "multipart/") {
			if body := getPlainTextBody(part); body != "" {
				return body
			}
		}
	}
	return ""
}
