package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application settings. Every key has a default, so
// running without a config file is fine.
type Config struct {
	Gmail   GmailConfig   `mapstructure:"gmail"`
	Voice   VoiceConfig   `mapstructure:"voice"`
	Summary SummaryConfig `mapstructure:"summary"`
	Speech  SpeechConfig  `mapstructure:"speech"`
}

// GmailConfig controls the fetch window and OAuth file locations.
type GmailConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	LookbackHours   int    `mapstructure:"lookback_hours"`
	MaxEmails       int64  `mapstructure:"max_emails"`
}

// VoiceConfig controls narration pacing and the listening windows.
type VoiceConfig struct {
	Rate             float64 `mapstructure:"rate"`
	Pitch            float64 `mapstructure:"pitch"`
	Language         string  `mapstructure:"language"`
	InterItemPauseMs int     `mapstructure:"inter_item_pause_ms"`
	CommandTimeoutS  int     `mapstructure:"command_timeout_s"`
	ReplyTimeoutS    int     `mapstructure:"reply_timeout_s"`
	ConfirmTimeoutS  int     `mapstructure:"confirm_timeout_s"`
	ConfirmRetries   int     `mapstructure:"confirm_retries"`
}

// SummaryConfig controls the Gemini summarizer.
type SummaryConfig struct {
	Model    string `mapstructure:"model"`
	MinChars int    `mapstructure:"min_chars"`
}

// SpeechConfig controls the speech-output and speech-input engines.
type SpeechConfig struct {
	Voice           string `mapstructure:"voice"`
	TranscribeModel string `mapstructure:"transcribe_model"`
}

func (v VoiceConfig) InterItemPause() time.Duration {
	return time.Duration(v.InterItemPauseMs) * time.Millisecond
}

func (v VoiceConfig) CommandTimeout() time.Duration {
	return time.Duration(v.CommandTimeoutS) * time.Second
}

func (v VoiceConfig) ReplyTimeout() time.Duration {
	return time.Duration(v.ReplyTimeoutS) * time.Second
}

func (v VoiceConfig) ConfirmTimeout() time.Duration {
	return time.Duration(v.ConfirmTimeoutS) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gmail.credentials_file", "credentials.json")
	v.SetDefault("gmail.token_file", "token.json")
	v.SetDefault("gmail.lookback_hours", 6)
	v.SetDefault("gmail.max_emails", 50)

	v.SetDefault("voice.rate", 1.0)
	v.SetDefault("voice.pitch", 1.0)
	v.SetDefault("voice.language", "en-US")
	v.SetDefault("voice.inter_item_pause_ms", 200)
	v.SetDefault("voice.command_timeout_s", 5)
	v.SetDefault("voice.reply_timeout_s", 10)
	v.SetDefault("voice.confirm_timeout_s", 5)
	v.SetDefault("voice.confirm_retries", 3)

	v.SetDefault("summary.model", "gemini-1.5-flash")
	v.SetDefault("summary.min_chars", 50)

	v.SetDefault("speech.voice", "alloy")
	v.SetDefault("speech.transcribe_model", "whisper-1")
}

// Load reads the YAML config at path. A missing file is not an error;
// defaults apply for every key not present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
