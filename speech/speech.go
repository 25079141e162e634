// Package speech defines the speech-output and speech-input capability
// contracts the voice session depends on, plus engines backed by the
// OpenAI audio API. The session never talks to an engine directly when
// an utterance is in flight somewhere else; Speak and Listen block and
// resolve exactly once, including on cancellation.
package speech

import (
	"context"
	"errors"
)

// Options control how an utterance sounds.
type Options struct {
	Rate     float64
	Pitch    float64
	Language string
}

// Result is one recognized transcript.
type Result struct {
	Transcript string
	Confidence float64
}

// Speaker speaks text. Speak returns nil on natural completion and
// ctx.Err() when cancelled; it never hangs after cancellation.
type Speaker interface {
	Speak(ctx context.Context, text string, opts Options) error
}

// Recognizer captures one bounded listening window and returns the
// transcript. The window closes on silence, on the ctx deadline, or
// on cancellation, whichever comes first.
type Recognizer interface {
	Listen(ctx context.Context, language string) (Result, error)
	Close() error
}

var (
	// ErrUnsupported means the engine cannot run on this host
	// (missing API key, no audio device). Detected at construction.
	ErrUnsupported = errors.New("speech: capability unsupported")

	// ErrNoSpeech means the listening window closed without
	// capturing anything.
	ErrNoSpeech = errors.New("speech: no speech detected")
)
