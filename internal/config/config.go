package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config stores runtime configuration for the backend.
type Config struct {
	Server        ServerConfig
	Recordings    RecordingsConfig
	OpenAI        OpenAIConfig
	Transcription TranscriptionConfig
	Audio         AudioConfig
}

type ServerConfig struct {
	Addr string
}

type RecordingsConfig struct {
	Dir string
}

type OpenAIConfig struct {
	APIKey            string
	OrgID             string
	Model             string
	WhisperModel      string
	RequestsPerMinute int
	StoryLocation     string
}

type TranscriptionConfig struct {
	PhraseGap           time.Duration
	MinRecognitionBytes int
}

type AudioConfig struct {
	FFmpegCommand string
	Format        string
}

// fileConfig mirrors the optional TOML config file. Environment variables
// take precedence over file values.
type fileConfig struct {
	Addr                string `toml:"addr"`
	RecordingsDir       string `toml:"recordings_dir"`
	OpenAIAPIKey        string `toml:"openai_api_key"`
	OpenAIOrgID         string `toml:"openai_org_id"`
	OpenAIModel         string `toml:"openai_model"`
	WhisperModel        string `toml:"whisper_model"`
	RequestsPerMinute   int    `toml:"openai_requests_per_minute"`
	StoryLocation       string `toml:"story_location"`
	PhraseGapMS         int    `toml:"phrase_gap_ms"`
	MinRecognitionBytes int    `toml:"min_recognition_bytes"`
	FFmpegCommand       string `toml:"ffmpeg_command"`
	AudioFormat         string `toml:"audio_format"`
}

// Load resolves configuration from the optional config file, environment
// variables, and sensible defaults, in ascending priority.
func Load() (Config, error) {
	cfg := Config{
		Server:     ServerConfig{Addr: ":3001"},
		Recordings: RecordingsConfig{Dir: "recordings"},
		OpenAI: OpenAIConfig{
			Model:             "gpt-4",
			WhisperModel:      "whisper-1",
			RequestsPerMinute: 3,
			StoryLocation:     "Morocco",
		},
		Transcription: TranscriptionConfig{
			PhraseGap:           2 * time.Second,
			MinRecognitionBytes: 1024,
		},
		Audio: AudioConfig{
			FFmpegCommand: "ffmpeg",
			Format:        "mp3",
		},
	}

	if path := configFilePath(); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
		applyFile(&cfg, fc)
	}

	applyEnv(&cfg)

	if cfg.Transcription.PhraseGap <= 0 {
		cfg.Transcription.PhraseGap = 2 * time.Second
	}
	if cfg.Transcription.MinRecognitionBytes <= 0 {
		cfg.Transcription.MinRecognitionBytes = 1024
	}
	if cfg.OpenAI.RequestsPerMinute <= 0 {
		cfg.OpenAI.RequestsPerMinute = 3
	}

	return cfg, nil
}

func configFilePath() string {
	if path := strings.TrimSpace(os.Getenv("NIGHTCAP_CONFIG")); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "nightcap", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.Addr != "" {
		cfg.Server.Addr = fc.Addr
	}
	if fc.RecordingsDir != "" {
		cfg.Recordings.Dir = fc.RecordingsDir
	}
	if fc.OpenAIAPIKey != "" {
		cfg.OpenAI.APIKey = fc.OpenAIAPIKey
	}
	if fc.OpenAIOrgID != "" {
		cfg.OpenAI.OrgID = fc.OpenAIOrgID
	}
	if fc.OpenAIModel != "" {
		cfg.OpenAI.Model = fc.OpenAIModel
	}
	if fc.WhisperModel != "" {
		cfg.OpenAI.WhisperModel = fc.WhisperModel
	}
	if fc.RequestsPerMinute > 0 {
		cfg.OpenAI.RequestsPerMinute = fc.RequestsPerMinute
	}
	if fc.StoryLocation != "" {
		cfg.OpenAI.StoryLocation = fc.StoryLocation
	}
	if fc.PhraseGapMS > 0 {
		cfg.Transcription.PhraseGap = time.Duration(fc.PhraseGapMS) * time.Millisecond
	}
	if fc.MinRecognitionBytes > 0 {
		cfg.Transcription.MinRecognitionBytes = fc.MinRecognitionBytes
	}
	if fc.FFmpegCommand != "" {
		cfg.Audio.FFmpegCommand = fc.FFmpegCommand
	}
	if fc.AudioFormat != "" {
		cfg.Audio.Format = fc.AudioFormat
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = envOrDefault("NIGHTCAP_ADDR", cfg.Server.Addr)
	cfg.Recordings.Dir = envOrDefault("NIGHTCAP_RECORDINGS_DIR", cfg.Recordings.Dir)
	cfg.OpenAI.APIKey = envOrDefault("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.OrgID = envOrDefault("OPENAI_ORG_ID", cfg.OpenAI.OrgID)
	cfg.OpenAI.Model = envOrDefault("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.WhisperModel = envOrDefault("NIGHTCAP_WHISPER_MODEL", cfg.OpenAI.WhisperModel)
	cfg.OpenAI.RequestsPerMinute = envOrDefaultInt("NIGHTCAP_OPENAI_RPM", cfg.OpenAI.RequestsPerMinute)
	cfg.OpenAI.StoryLocation = envOrDefault("NIGHTCAP_STORY_LOCATION", cfg.OpenAI.StoryLocation)
	if ms := envOrDefaultInt("NIGHTCAP_PHRASE_GAP_MS", 0); ms > 0 {
		cfg.Transcription.PhraseGap = time.Duration(ms) * time.Millisecond
	}
	cfg.Transcription.MinRecognitionBytes = envOrDefaultInt("NIGHTCAP_MIN_RECOGNITION_BYTES", cfg.Transcription.MinRecognitionBytes)
	cfg.Audio.FFmpegCommand = envOrDefault("NIGHTCAP_FFMPEG_COMMAND", cfg.Audio.FFmpegCommand)
	cfg.Audio.Format = envOrDefault("NIGHTCAP_AUDIO_FORMAT", cfg.Audio.Format)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
