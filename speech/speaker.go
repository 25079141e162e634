package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	beepmp3 "github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAISpeaker synthesizes MP3 speech through the OpenAI TTS endpoint
// and plays it on the default output device.
type OpenAISpeaker struct {
	client openai.Client
	voice  string
}

func NewSpeaker(apiKey, voice string) (*OpenAISpeaker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrUnsupported)
	}
	return &OpenAISpeaker{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		voice:  voice,
	}, nil
}

// Speak synthesizes and plays text. Cancellation stops playback
// immediately and returns ctx.Err(); natural completion returns nil.
// Exactly one of the two happens. The pitch option has no effect on
// this engine.
func (s *OpenAISpeaker) Speak(ctx context.Context, text string, opts Options) error {
	if text == "" {
		return nil
	}

	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if opts.Rate > 0 {
		params.Speed = openai.Float(opts.Rate)
	}
	resp, err := s.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	// Buffer the whole clip; utterances are short and the decoder
	// wants to own the reader.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read synthesized audio: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	streamer, format, err := beepmp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("%w: init playback: %v", ErrUnsupported, err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
