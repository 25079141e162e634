package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIRecognizer captures one utterance from the microphone and
// transcribes it with Whisper.
type OpenAIRecognizer struct {
	client openai.Client
	model  string
	rec    *recorder
}

func NewRecognizer(apiKey, model string) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrUnsupported)
	}
	rec, err := newRecorder()
	if err != nil {
		return nil, fmt.Errorf("%w: audio input: %v", ErrUnsupported, err)
	}
	return &OpenAIRecognizer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		rec:    rec,
	}, nil
}

func (r *OpenAIRecognizer) Close() error {
	return r.rec.close()
}

// Listen records until silence or the ctx deadline, then transcribes.
// The transcription API reports no confidence, so a non-empty
// transcript reports 1.0 to keep the (transcript, confidence) shape.
func (r *OpenAIRecognizer) Listen(ctx context.Context, language string) (Result, error) {
	pcm, err := r.rec.record(ctx)
	if err != nil {
		return Result{}, err
	}

	path, err := writeWAV(pcm)
	if err != nil {
		return Result{}, fmt.Errorf("encode audio: %w", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(r.model),
		File:  openai.File(f, "speech.wav", "audio/wav"),
	}
	if lang := isoLanguage(language); lang != "" {
		params.Language = openai.String(lang)
	}
	tr, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return Result{}, ErrNoSpeech
	}
	return Result{Transcript: text, Confidence: 1.0}, nil
}

// isoLanguage maps a BCP 47 tag like "en-US" to the ISO 639-1 code
// the transcription API expects.
func isoLanguage(tag string) string {
	if i := strings.IndexByte(tag, '-'); i > 0 {
		return tag[:i]
	}
	return tag
}

// writeWAV encodes mono 16kHz float32 PCM to a temp WAV file and
// returns its path. The encoder needs a seekable writer.
func writeWAV(pcm []float32) (string, error) {
	tmp, err := os.CreateTemp("", "mailvox-*.wav")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	enc := wav.NewEncoder(tmp, sampleRate, 16, 1, 1)
	ints := make([]int, len(pcm))
	for i, v := range pcm {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		ints[i] = int(v * 32767)
	}
	buf := &audio.IntBuffer{
		Data:           ints,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := enc.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
