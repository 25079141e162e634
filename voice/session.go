// Package voice owns the interaction state machine: it sequences
// spoken announcements over one announcement plan, accepts commands
// that interrupt or redirect the sequence, and runs the voice-reply
// capture/confirm/send flow.
//
// The session is cooperative and single-threaded: one run goroutine
// owns all state, commands arrive on a channel, and every utterance,
// listening window and delay is a cancellable wait inside that
// goroutine. At most one speech or recognition operation is in flight
// at any time.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/mailvox/mailvox/config"
	"github.com/mailvox/mailvox/speech"
	"github.com/mailvox/mailvox/triage"
)

// Phase is the state-machine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnnouncingSummary
	PhaseSpeaking
	PhasePaused
	PhaseListeningCommand
	PhaseListeningReply
	PhaseAwaitingConfirmation
	PhaseSending
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnnouncingSummary:
		return "announcing summary"
	case PhaseSpeaking:
		return "speaking"
	case PhasePaused:
		return "paused"
	case PhaseListeningCommand:
		return "listening for command"
	case PhaseListeningReply:
		return "listening for reply"
	case PhaseAwaitingConfirmation:
		return "awaiting confirmation"
	case PhaseSending:
		return "sending"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrPaused is returned when an utterance is requested while the pause
// gate is set. Nothing may speak over a user pause.
var ErrPaused = errors.New("voice: session is paused")

// ReplySender sends the captured reply on the email thread.
type ReplySender interface {
	SendReply(ctx context.Context, to, subject, body, threadID string) (string, error)
}

// Event is one observable state change, consumed by the UI.
type Event struct {
	Phase     Phase
	Index     int
	Total     int
	Status    string
	ReplyText string
}

type replyTarget struct {
	to       string
	subject  string
	threadID string
}

// Session drives playback of one announcement plan. It is the only
// owner of the plan and of all voice state for the batch.
type Session struct {
	plan       *triage.Plan
	speaker    speech.Speaker
	recognizer speech.Recognizer
	sender     ReplySender
	cfg        config.VoiceConfig

	cmds   chan Intent
	events chan Event

	// Owned by the run goroutine.
	phase       Phase
	index       int
	userPaused  bool
	pendingText string
	pendingTo   replyTarget
}

func NewSession(plan *triage.Plan, speaker speech.Speaker, recognizer speech.Recognizer, sender ReplySender, cfg config.VoiceConfig) *Session {
	return &Session{
		plan:       plan,
		speaker:    speaker,
		recognizer: recognizer,
		sender:     sender,
		cfg:        cfg,
		cmds:       make(chan Intent, 8),
		events:     make(chan Event, 16),
	}
}

// Events streams state changes until the session ends.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Command queues an intent for the run loop. Never blocks; a command
// arriving faster than the loop can drain is dropped.
func (s *Session) Command(in Intent) {
	select {
	case s.cmds <- in:
	default:
		log.Printf("Voice: dropping command %q, queue full", in)
	}
}

func (s *Session) opts() speech.Options {
	return speech.Options{Rate: s.cfg.Rate, Pitch: s.cfg.Pitch, Language: s.cfg.Language}
}

func (s *Session) emit(status string) {
	ev := Event{
		Phase:     s.phase,
		Index:     s.index,
		Total:     len(s.plan.Items),
		Status:    status,
		ReplyText: s.pendingText,
	}
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Session) setPhase(p Phase, status string) {
	s.phase = p
	s.emit(status)
}

// say speaks a notice to completion. The pause gate blocks it: no code
// path may start an utterance while the user has paused playback.
func (s *Session) say(ctx context.Context, text string) error {
	if s.userPaused {
		return ErrPaused
	}
	return s.speaker.Speak(ctx, text, s.opts())
}

// action is what a cancellable wait resolved to.
type action int

const (
	actDone action = iota // completed naturally
	actNext
	actPrev
	actStop
	actPause
	actListen
	actReply
	actQuit // parent context cancelled
)

func actionFor(in Intent) (action, bool) {
	switch in {
	case IntentNext:
		return actNext, true
	case IntentPrevious:
		return actPrev, true
	case IntentStop:
		return actStop, true
	case IntentPause:
		return actPause, true
	case IntentListen:
		return actListen, true
	case IntentReply:
		return actReply, true
	default:
		// Resume while already speaking, or unknown: no-op.
		return actDone, false
	}
}

// speakUntil speaks text while watching the command channel. A command
// cancels the in-flight utterance; the cancelled speech wait always
// resolves before the action is returned, so no second utterance can
// overlap it.
func (s *Session) speakUntil(ctx context.Context, text string) action {
	if s.userPaused {
		return actPause
	}

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- s.speaker.Speak(sctx, text, s.opts())
	}()

	for {
		select {
		case err := <-done:
			if ctx.Err() != nil {
				return actQuit
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Voice: speech error: %v", err)
			}
			return actDone
		case in := <-s.cmds:
			act, interrupt := actionFor(in)
			if !interrupt {
				continue
			}
			cancel()
			<-done
			return act
		case <-ctx.Done():
			cancel()
			<-done
			return actQuit
		}
	}
}

// waitUntil pauses between items, still responsive to commands.
func (s *Session) waitUntil(ctx context.Context, d time.Duration) action {
	if d <= 0 {
		return actDone
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return actDone
		case in := <-s.cmds:
			act, interrupt := actionFor(in)
			if !interrupt {
				continue
			}
			return act
		case <-ctx.Done():
			return actQuit
		}
	}
}

// Run executes the plan: summary utterance, then sequential narration,
// handling interrupts until the plan finishes, the user stops it, or
// ctx is cancelled. It closes the event stream on return.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		s.emit("")
		close(s.events)
	}()

	s.setPhase(PhaseAnnouncingSummary, "Reading summary")
	switch s.speakUntil(ctx, s.plan.Summary) {
	case actQuit:
		return ctx.Err()
	case actStop:
		return s.stop(ctx)
	}

	if len(s.plan.Items) == 0 {
		s.setPhase(PhaseIdle, "No emails to read")
		return nil
	}

	for {
		s.setPhase(PhaseSpeaking, fmt.Sprintf("Email %d of %d", s.index+1, len(s.plan.Items)))
		act := s.speakUntil(ctx, s.plan.Items[s.index].SpokenText)

	handle:
		switch act {
		case actQuit:
			return ctx.Err()

		case actDone:
			act = s.waitUntil(ctx, s.cfg.InterItemPause())
			if act != actDone {
				goto handle
			}
			if s.index+1 >= len(s.plan.Items) {
				s.setPhase(PhaseIdle, "Finished reading all emails")
				return nil
			}
			s.index++

		case actNext:
			s.moveNext(ctx)

		case actPrev:
			s.movePrev(ctx)

		case actStop:
			return s.stop(ctx)

		case actPause:
			act = s.pausedWait(ctx)
			switch act {
			case actQuit:
				return ctx.Err()
			case actStop:
				return s.stop(ctx)
			case actNext, actPrev, actReply, actListen:
				goto handle
			}
			// Resume restarts the current item from its beginning.

		case actListen:
			act = s.listenForCommand(ctx)
			if act != actDone {
				goto handle
			}

		case actReply:
			end, err := s.replyFlow(ctx)
			if err != nil {
				return err
			}
			if end {
				return nil
			}
			// Capture failed; resume narrating the current item.
		}
	}
}

// moveNext advances the cursor, or speaks the fixed edge notice
// without moving when already at the last item.
func (s *Session) moveNext(ctx context.Context) {
	if s.index+1 >= len(s.plan.Items) {
		s.emit("No more emails")
		if err := s.say(ctx, "No more emails"); err != nil {
			log.Printf("Voice: notice failed: %v", err)
		}
		return
	}
	s.index++
	s.emit("Next email")
}

func (s *Session) movePrev(ctx context.Context) {
	if s.index == 0 {
		s.emit("This is the first email")
		if err := s.say(ctx, "This is the first email"); err != nil {
			log.Printf("Voice: notice failed: %v", err)
		}
		return
	}
	s.index--
	s.emit("Previous email")
}

// stop cancels playback, resets the cursor and settles in Idle.
func (s *Session) stop(ctx context.Context) error {
	s.userPaused = false
	s.index = 0
	s.setPhase(PhaseStopped, "Stopped")
	if err := s.say(ctx, "Stopped"); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Voice: notice failed: %v", err)
	}
	s.setPhase(PhaseIdle, "")
	return nil
}

// pausedWait holds at the current item with the pause gate set until a
// command moves the session on. Nothing speaks while the gate is set.
func (s *Session) pausedWait(ctx context.Context) action {
	s.userPaused = true
	defer func() { s.userPaused = false }()
	s.setPhase(PhasePaused, "Paused")

	for {
		select {
		case in := <-s.cmds:
			switch in {
			case IntentResume:
				s.emit("Resumed")
				return actDone
			case IntentStop:
				return actStop
			case IntentNext:
				return actNext
			case IntentPrevious:
				return actPrev
			case IntentReply:
				return actReply
			case IntentListen:
				return actListen
			}
		case <-ctx.Done():
			return actQuit
		}
	}
}

// listenForCommand opens one bounded listening window, interprets the
// transcript and returns the resulting action. Timeout or recognition
// failure returns actDone so the session resumes where it was.
func (s *Session) listenForCommand(ctx context.Context) action {
	s.setPhase(PhaseListeningCommand, "Listening for command...")

	lctx, cancel := context.WithTimeout(ctx, s.cfg.CommandTimeout())
	res, err := s.recognizer.Listen(lctx, s.cfg.Language)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return actQuit
		}
		log.Printf("Voice: command recognition failed: %v", err)
		s.emit("Voice command failed")
		return actDone
	}

	s.emit(fmt.Sprintf("Command: %q", res.Transcript))
	intent := Interpret(res.Transcript)
	if intent == IntentUnknown {
		if err := s.say(ctx, "Command not recognized"); err != nil {
			log.Printf("Voice: notice failed: %v", err)
		}
		return actDone
	}
	act, _ := actionFor(intent)
	if intent == IntentResume {
		act = actDone
	}
	return act
}

// replyFlow captures a spoken reply to the current email, reads it
// back, asks for confirmation and sends. Returns end=true when the
// flow reached a terminal state (sent, cancelled, or confirm retries
// exhausted); end=false means capture failed and narration continues.
func (s *Session) replyFlow(ctx context.Context) (end bool, err error) {
	item := s.plan.Items[s.index]
	s.pendingTo = replyTarget{
		to:       senderAddress(item.Message.Sender),
		subject:  "Re: " + item.Message.Subject,
		threadID: item.Message.ThreadID,
	}
	defer func() {
		s.pendingText = ""
		s.pendingTo = replyTarget{}
	}()

	s.setPhase(PhaseListeningReply, "Reply mode: Speak your message...")
	lctx, cancel := context.WithTimeout(ctx, s.cfg.ReplyTimeout())
	res, rerr := s.recognizer.Listen(lctx, s.cfg.Language)
	cancel()
	if rerr != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Printf("Voice: reply capture failed: %v", rerr)
		s.emit("Failed to record reply")
		return false, nil
	}

	s.pendingText = res.Transcript
	s.setPhase(PhaseAwaitingConfirmation, "Confirming reply...")
	readback := fmt.Sprintf("You said: %s. Say \"send\" to send, or \"cancel\" to cancel.", res.Transcript)
	if err := s.say(ctx, readback); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Printf("Voice: readback failed: %v", err)
	}

	for attempt := 0; attempt < s.cfg.ConfirmRetries; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmTimeout())
		confirm, cerr := s.recognizer.Listen(cctx, s.cfg.Language)
		cancel()
		if cerr != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			log.Printf("Voice: confirmation failed: %v", cerr)
			break
		}

		answer := strings.ToLower(confirm.Transcript)
		switch {
		case strings.Contains(answer, "send"):
			return true, s.send(ctx)
		case strings.Contains(answer, "cancel"):
			s.emit("Reply cancelled")
			if err := s.say(ctx, "Reply cancelled"); err != nil {
				log.Printf("Voice: notice failed: %v", err)
			}
			s.setPhase(PhaseIdle, "Reply cancelled")
			return true, nil
		default:
			if err := s.say(ctx, "Say \"send\" or \"cancel\""); err != nil {
				log.Printf("Voice: re-prompt failed: %v", err)
			}
		}
	}

	// Retries exhausted or confirmation window failed: discard.
	if err := s.say(ctx, "Reply cancelled"); err != nil {
		log.Printf("Voice: notice failed: %v", err)
	}
	s.setPhase(PhaseIdle, "Reply cancelled")
	return true, nil
}

// send performs the external reply send and speaks the outcome. Both
// success and failure settle in Idle with pending reply state cleared.
func (s *Session) send(ctx context.Context) error {
	s.setPhase(PhaseSending, "Sending reply...")
	_, err := s.sender.SendReply(ctx, s.pendingTo.to, s.pendingTo.subject, s.pendingText, s.pendingTo.threadID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("Voice: send failed: %v", err)
		s.emit("Failed to send reply")
		if serr := s.say(ctx, "Failed to send reply"); serr != nil {
			log.Printf("Voice: notice failed: %v", serr)
		}
	} else {
		s.emit("Reply sent!")
		if serr := s.say(ctx, "Your reply has been sent"); serr != nil {
			log.Printf("Voice: notice failed: %v", serr)
		}
	}
	s.setPhase(PhaseIdle, "")
	return nil
}

// senderAddress reduces a From header to the bare address for the To
// field of the reply.
func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return from
	}
	return addr.Address
}
