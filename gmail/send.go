package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

// buildReplyRaw assembles an RFC 2822 plain-text reply. The thread id
// doubles as the In-Reply-To/References value so Gmail keeps the reply
// on the conversation.
func buildReplyRaw(to, subject, body, threadID string) string {
	lines := []string{
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
	}
	if threadID != "" {
		lines = append(lines,
			fmt.Sprintf("In-Reply-To: %s", threadID),
			fmt.Sprintf("References: %s", threadID),
		)
	}
	lines = append(lines, "Content-Type: text/plain; charset=utf-8", "", body)
	return strings.Join(lines, "\r\n")
}

// SendReply sends a plain-text reply threaded onto threadID and
// returns the sent message id.
func (c *Client) SendReply(ctx context.Context, to, subject, body, threadID string) (string, error) {
	raw := buildReplyRaw(to, subject, body, threadID)
	msg := &gmailapi.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(raw)),
		ThreadId: threadID,
	}
	sent, err := c.srv.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	log.Printf("Gmail: sent reply %s on thread %s", sent.Id, threadID)
	return sent.Id, nil
}
