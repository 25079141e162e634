package speech

import (
	"os"
	"testing"
)

func TestIsoLanguage(t *testing.T) {
	cases := []struct{ in, want string }{
		{"en-US", "en"},
		{"de-DE", "de"},
		{"en", "en"},
		{"", ""},
	}
	for _, c := range cases {
		if got := isoLanguage(c.in); got != c.want {
			t.Errorf("isoLanguage(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteWAV(t *testing.T) {
	pcm := make([]float32, sampleRate/10)
	for i := range pcm {
		pcm[i] = 0.25
	}
	path, err := writeWAV(pcm)
	if err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	defer os.Remove(path)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// 16-bit mono samples plus the WAV header.
	if info.Size() <= int64(len(pcm)*2) {
		t.Errorf("file size %d too small for %d samples", info.Size(), len(pcm))
	}
}

func TestNewSpeakerRequiresKey(t *testing.T) {
	if _, err := NewSpeaker("", "alloy"); err == nil {
		t.Fatal("NewSpeaker with empty key succeeded, want error")
	}
}
