package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Gmail.CredentialsFile != "credentials.json" {
		t.Errorf("CredentialsFile = %q", cfg.Gmail.CredentialsFile)
	}
	if cfg.Gmail.LookbackHours != 6 || cfg.Gmail.MaxEmails != 50 {
		t.Errorf("gmail defaults wrong: %+v", cfg.Gmail)
	}
	if cfg.Voice.Rate != 1.0 || cfg.Voice.Language != "en-US" {
		t.Errorf("voice defaults wrong: %+v", cfg.Voice)
	}
	if cfg.Voice.ConfirmRetries != 3 {
		t.Errorf("ConfirmRetries = %d, want 3", cfg.Voice.ConfirmRetries)
	}
	if cfg.Summary.Model != "gemini-1.5-flash" || cfg.Summary.MinChars != 50 {
		t.Errorf("summary defaults wrong: %+v", cfg.Summary)
	}
	if cfg.Speech.Voice != "alloy" || cfg.Speech.TranscribeModel != "whisper-1" {
		t.Errorf("speech defaults wrong: %+v", cfg.Speech)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mailvox.yaml")
	data := []byte("gmail:\n  lookback_hours: 24\nvoice:\n  rate: 1.5\n  reply_timeout_s: 20\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gmail.LookbackHours != 24 {
		t.Errorf("LookbackHours = %d, want 24", cfg.Gmail.LookbackHours)
	}
	if cfg.Voice.Rate != 1.5 {
		t.Errorf("Rate = %v, want 1.5", cfg.Voice.Rate)
	}
	if cfg.Voice.ReplyTimeoutS != 20 {
		t.Errorf("ReplyTimeoutS = %d, want 20", cfg.Voice.ReplyTimeoutS)
	}
	// Unset keys keep their defaults.
	if cfg.Voice.CommandTimeoutS != 5 {
		t.Errorf("CommandTimeoutS = %d, want default 5", cfg.Voice.CommandTimeoutS)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gmail: ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of malformed YAML succeeded, want error")
	}
}

func TestVoiceConfigDurations(t *testing.T) {
	v := VoiceConfig{
		InterItemPauseMs: 200,
		CommandTimeoutS:  5,
		ReplyTimeoutS:    10,
		ConfirmTimeoutS:  5,
	}
	if v.InterItemPause() != 200*time.Millisecond {
		t.Errorf("InterItemPause = %v", v.InterItemPause())
	}
	if v.CommandTimeout() != 5*time.Second {
		t.Errorf("CommandTimeout = %v", v.CommandTimeout())
	}
	if v.ReplyTimeout() != 10*time.Second {
		t.Errorf("ReplyTimeout = %v", v.ReplyTimeout())
	}
	if v.ConfirmTimeout() != 5*time.Second {
		t.Errorf("ConfirmTimeout = %v", v.ConfirmTimeout())
	}
}
