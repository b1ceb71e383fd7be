package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type AudioConfig struct {
	MicrophoneDevice  string `yaml:"microphone_device"`
	SpeakerDevice     string `yaml:"speaker_device"`
	MicrophoneEnabled bool   `yaml:"microphone_enabled"`
	SpeakerEnabled    bool   `yaml:"speaker_enabled"`
	SampleRate        int    `yaml:"sample_rate"`
	FrameDurationMS   int    `yaml:"frame_duration_ms"`
}

type SummaryConfig struct {
	SystemPromptPath string `yaml:"system_prompt_path"`
	MaxTokens        int    `yaml:"max_tokens"`
}

type Config struct {
	AppName     string `yaml:"app_name"`
	Environment string `yaml:"environment"`

	LanguageCode            string `yaml:"language_code"`
	TranscribeRegion        string `yaml:"transcribe_region"`
	FilePath                string `yaml:"file_path"`
	SaveAudioEnabled        bool   `yaml:"save_audio_enabled"`
	CustomVocabularyEnabled bool   `yaml:"custom_vocabulary_enabled"`
	VocabularyName          string `yaml:"vocabulary_name"`
	MakeSummaryEnabled      bool   `yaml:"make_summary_enabled"`
	BedrockRegion           string `yaml:"bedrock_region"`
	LLMModelName            string `yaml:"llm_model_name"`

	Audio     AudioConfig     `yaml:"audio"`
	Summary   SummaryConfig   `yaml:"summary"`
	HTTP      HTTPConfig      `yaml:"http"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

func Default() Config {
	return Config{
		AppName:     "meetscribe",
		Environment: "development",

		LanguageCode:     "ja-JP",
		TranscribeRegion: "ap-northeast-1",
		FilePath:         "./recordings",
		BedrockRegion:    "us-west-2",

		Audio: AudioConfig{
			MicrophoneEnabled: true,
			SpeakerEnabled:    true,
			SampleRate:        16000,
			FrameDurationMS:   10,
		},
		Summary: SummaryConfig{
			SystemPromptPath: "system_prompt.txt",
			MaxTokens:        2000,
		},
		HTTP: HTTPConfig{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			OTLPEndpoint: "",
			OTLPInsecure: true,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.AppName, "MEETSCRIBE_APP_NAME")
	overrideString(&cfg.Environment, "MEETSCRIBE_ENVIRONMENT")
	overrideString(&cfg.LanguageCode, "MEETSCRIBE_LANGUAGE_CODE")
	overrideString(&cfg.TranscribeRegion, "MEETSCRIBE_TRANSCRIBE_REGION")
	overrideString(&cfg.FilePath, "MEETSCRIBE_FILE_PATH")
	overrideBool(&cfg.SaveAudioEnabled, "MEETSCRIBE_SAVE_AUDIO_ENABLED")
	overrideBool(&cfg.CustomVocabularyEnabled, "MEETSCRIBE_CUSTOM_VOCABULARY_ENABLED")
	overrideString(&cfg.VocabularyName, "MEETSCRIBE_VOCABULARY_NAME")
	overrideBool(&cfg.MakeSummaryEnabled, "MEETSCRIBE_MAKE_SUMMARY_ENABLED")
	overrideString(&cfg.BedrockRegion, "MEETSCRIBE_BEDROCK_REGION")
	overrideString(&cfg.LLMModelName, "MEETSCRIBE_LLM_MODEL_NAME")
	overrideString(&cfg.Audio.MicrophoneDevice, "MEETSCRIBE_AUDIO_MICROPHONE_DEVICE")
	overrideString(&cfg.Audio.SpeakerDevice, "MEETSCRIBE_AUDIO_SPEAKER_DEVICE")
	overrideBool(&cfg.Audio.MicrophoneEnabled, "MEETSCRIBE_AUDIO_MICROPHONE_ENABLED")
	overrideBool(&cfg.Audio.SpeakerEnabled, "MEETSCRIBE_AUDIO_SPEAKER_ENABLED")
	overrideInt(&cfg.Audio.SampleRate, "MEETSCRIBE_AUDIO_SAMPLE_RATE")
	overrideInt(&cfg.Audio.FrameDurationMS, "MEETSCRIBE_AUDIO_FRAME_DURATION_MS")
	overrideString(&cfg.Summary.SystemPromptPath, "MEETSCRIBE_SUMMARY_SYSTEM_PROMPT_PATH")
	overrideInt(&cfg.Summary.MaxTokens, "MEETSCRIBE_SUMMARY_MAX_TOKENS")
	overrideString(&cfg.HTTP.Bind, "MEETSCRIBE_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "MEETSCRIBE_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "MEETSCRIBE_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "MEETSCRIBE_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "MEETSCRIBE_TELEMETRY_OTLP_INSECURE")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.AppName == "" {
		return errors.New("app_name must not be empty")
	}
	if cfg.LanguageCode == "" {
		return errors.New("language_code must not be empty")
	}
	if cfg.TranscribeRegion == "" {
		return errors.New("transcribe_region must not be empty")
	}
	if cfg.FilePath == "" {
		return errors.New("file_path must not be empty")
	}
	if cfg.CustomVocabularyEnabled && cfg.VocabularyName == "" {
		return errors.New("vocabulary_name must be set when custom_vocabulary_enabled is true")
	}
	if cfg.MakeSummaryEnabled {
		if cfg.BedrockRegion == "" {
			return errors.New("bedrock_region must be set when make_summary_enabled is true")
		}
		if cfg.LLMModelName == "" {
			return errors.New("llm_model_name must be set when make_summary_enabled is true")
		}
		if cfg.Summary.MaxTokens <= 0 {
			return errors.New("summary.max_tokens must be positive")
		}
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if cfg.Audio.FrameDurationMS <= 0 {
		return errors.New("audio.frame_duration_ms must be positive")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	switch cfg.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
		// ok
	default:
		return errors.New("telemetry.log_level must be one of debug|info|warn|error")
	}
	return nil
}
