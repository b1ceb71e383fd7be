package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LanguageCode != "ja-JP" {
		t.Fatalf("expected default language code, got %q", cfg.LanguageCode)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected 16000 sample rate, got %d", cfg.Audio.SampleRate)
	}
	if !cfg.Audio.MicrophoneEnabled || !cfg.Audio.SpeakerEnabled {
		t.Fatal("expected both channels enabled by default")
	}
	if cfg.Summary.MaxTokens != 2000 {
		t.Fatalf("expected 2000 max tokens, got %d", cfg.Summary.MaxTokens)
	}
	if cfg.SaveAudioEnabled || cfg.MakeSummaryEnabled {
		t.Fatal("expected optional outputs disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meetscribe.yaml")
	body := []byte(`
language_code: en-US
transcribe_region: us-east-1
file_path: /tmp/meetings
save_audio_enabled: true
make_summary_enabled: true
bedrock_region: us-west-2
llm_model_name: anthropic.claude-3-5-sonnet-20240620-v1:0
audio:
  microphone_device: "USB Audio"
  speaker_enabled: false
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LanguageCode != "en-US" {
		t.Fatalf("expected en-US, got %q", cfg.LanguageCode)
	}
	if cfg.FilePath != "/tmp/meetings" {
		t.Fatalf("expected file path override, got %q", cfg.FilePath)
	}
	if !cfg.SaveAudioEnabled {
		t.Fatal("expected save_audio_enabled true")
	}
	if cfg.Audio.MicrophoneDevice != "USB Audio" {
		t.Fatalf("expected device override, got %q", cfg.Audio.MicrophoneDevice)
	}
	if cfg.Audio.SpeakerEnabled {
		t.Fatal("expected speaker channel disabled")
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate to survive partial file, got %d", cfg.Audio.SampleRate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEETSCRIBE_LANGUAGE_CODE", "en-GB")
	t.Setenv("MEETSCRIBE_TRANSCRIBE_REGION", "eu-west-2")
	t.Setenv("MEETSCRIBE_FILE_PATH", "./out")
	t.Setenv("MEETSCRIBE_SAVE_AUDIO_ENABLED", "true")
	t.Setenv("MEETSCRIBE_CUSTOM_VOCABULARY_ENABLED", "true")
	t.Setenv("MEETSCRIBE_VOCABULARY_NAME", "team-jargon")
	t.Setenv("MEETSCRIBE_AUDIO_FRAME_DURATION_MS", "20")
	t.Setenv("MEETSCRIBE_HTTP_PORT", "9190")
	t.Setenv("MEETSCRIBE_TELEMETRY_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LanguageCode != "en-GB" {
		t.Fatalf("expected language override, got %q", cfg.LanguageCode)
	}
	if cfg.TranscribeRegion != "eu-west-2" {
		t.Fatalf("expected region override, got %q", cfg.TranscribeRegion)
	}
	if cfg.FilePath != "./out" {
		t.Fatalf("expected file path override, got %q", cfg.FilePath)
	}
	if !cfg.SaveAudioEnabled {
		t.Fatal("expected save audio override true")
	}
	if !cfg.CustomVocabularyEnabled || cfg.VocabularyName != "team-jargon" {
		t.Fatalf("expected vocabulary override, got %q", cfg.VocabularyName)
	}
	if cfg.Audio.FrameDurationMS != 20 {
		t.Fatalf("expected frame duration 20, got %d", cfg.Audio.FrameDurationMS)
	}
	if cfg.HTTP.Port != 9190 {
		t.Fatalf("expected port 9190, got %d", cfg.HTTP.Port)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.Telemetry.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty language", func(c *Config) { c.LanguageCode = "" }},
		{"empty transcribe region", func(c *Config) { c.TranscribeRegion = "" }},
		{"empty file path", func(c *Config) { c.FilePath = "" }},
		{"vocabulary enabled without name", func(c *Config) { c.CustomVocabularyEnabled = true }},
		{"summary enabled without model", func(c *Config) { c.MakeSummaryEnabled = true }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"zero frame duration", func(c *Config) { c.Audio.FrameDurationMS = 0 }},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Telemetry.LogLevel = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateSummaryRequiresRegion(t *testing.T) {
	cfg := Default()
	cfg.MakeSummaryEnabled = true
	cfg.LLMModelName = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	cfg.BedrockRegion = ""
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for missing bedrock region")
	}
	cfg.BedrockRegion = "us-west-2"
	if err := validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
