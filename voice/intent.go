package voice

import "strings"

// Intent is a normalized command meaning derived from a transcript.
type Intent string

const (
	IntentNext     Intent = "next"
	IntentPrevious Intent = "previous"
	IntentStop     Intent = "stop"
	IntentPause    Intent = "pause"
	IntentResume   Intent = "resume"
	IntentReply    Intent = "reply"
	IntentUnknown  Intent = "unknown"

	// IntentListen is the voice-command activation itself (mic
	// button / hotkey), not something Interpret returns.
	IntentListen Intent = "listen"
)

// Interpret maps a recognized transcript to an intent by fixed
// substring checks, first match wins. Case-insensitive; no match
// yields IntentUnknown.
func Interpret(transcript string) Intent {
	cmd := strings.ToLower(strings.TrimSpace(transcript))
	switch {
	case strings.Contains(cmd, "next"):
		return IntentNext
	case strings.Contains(cmd, "previous"), strings.Contains(cmd, "back"):
		return IntentPrevious
	case strings.Contains(cmd, "stop"):
		return IntentStop
	case strings.Contains(cmd, "pause"):
		return IntentPause
	case strings.Contains(cmd, "resume"), strings.Contains(cmd, "play"):
		return IntentResume
	case strings.Contains(cmd, "reply"):
		return IntentReply
	default:
		return IntentUnknown
	}
}
