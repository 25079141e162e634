package speech

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate      = 16000
	frameSize       = 320 // 20ms
	silenceRMS      = 0.015
	trailingSilence = 600 * time.Millisecond
	maxRecordLength = 15 * time.Second
)

// recorder captures mono 16kHz PCM from the default input device,
// stopping on trailing silence once speech has started.
type recorder struct{}

func newRecorder() (*recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &recorder{}, nil
}

func (r *recorder) close() error {
	return portaudio.Terminate()
}

// record returns the captured samples. The ctx deadline bounds the
// window; silence after speech ends it early.
func (r *recorder) record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxRecordLength)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var (
		speaking      bool
		silenceFrames int
	)
	frameDur := 20 * time.Millisecond

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > silenceRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}
		if speaking {
			silenceFrames++
			if time.Duration(silenceFrames)*frameDur >= trailingSilence {
				break
			}
			out = append(out, buf...)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoSpeech
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
