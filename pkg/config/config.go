package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	TTS       TTSConfig       `yaml:"tts"`
	STT       STTConfig       `yaml:"stt"`
	Record    RecordConfig    `yaml:"record"`
	LLM       LLMConfig       `yaml:"llm"`
	Rehearsal RehearsalConfig `yaml:"rehearsal"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	Voice  LogSettings `yaml:"voice"`
	Coach  LogSettings `yaml:"coach"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// EdgeTTSConfig holds settings for Edge TTS.
type EdgeTTSConfig struct {
	VoiceID string `yaml:"voice"` // e.g. "en-US-AvaMultilingualNeural"
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine  string        `yaml:"engine"`
	Rate    float64       `yaml:"rate"`   // 0.5 .. 2.0
	Volume  float64       `yaml:"volume"` // 0.0 .. 1.0
	EdgeTTS EdgeTTSConfig `yaml:"edge_tts"`
}

// STTConfig holds speech recognition settings.
type STTConfig struct {
	Engine     string `yaml:"engine"`     // "vosk", "mock", "off"
	ModelPath  string `yaml:"model_path"` // directory of the Vosk acoustic model
	SampleRate int    `yaml:"sample_rate"`
}

// RecordConfig holds take recording settings.
type RecordConfig struct {
	Dir        string `yaml:"dir"`
	SampleRate int    `yaml:"sample_rate"`
}

// LLMConfig holds settings for the coaching note provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "gemini", "mock"
	Model    string `yaml:"model"`
	Key      string `yaml:"key"` // API Key
}

// RehearsalConfig holds session behavior settings.
type RehearsalConfig struct {
	HintWords    int `yaml:"hint_words"`     // leading words revealed by a hint
	LinesPerBeat int `yaml:"lines_per_beat"` // beat size for script splitting
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1921",
		},
		DB: DBConfig{
			Path: "./data/scenepartner.db",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Voice: LogSettings{
				Path:  "./logs/voice.log",
				Level: "INFO",
			},
			Coach: LogSettings{
				Path:  "./logs/coach.log",
				Level: "INFO",
			},
		},
		TTS: TTSConfig{
			Engine: "windows-sapi",
			Rate:   1.0,
			Volume: 1.0,
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-US-AvaMultilingualNeural",
			},
		},
		STT: STTConfig{
			Engine:     "vosk",
			ModelPath:  "./data/vosk-model-small-en-us",
			SampleRate: 16000,
		},
		Record: RecordConfig{
			Dir:        "./data/takes",
			SampleRate: 44100,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash-lite",
			Key:      "",
		},
		Rehearsal: RehearsalConfig{
			HintWords:    5,
			LinesPerBeat: 10,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Load from Env if empty (as a fallback, but do NOT save back to disk)
		if cfg.LLM.Key == "" {
			if key := os.Getenv("GEMINI_API_KEY"); key != "" {
				cfg.LLM.Key = key
			}
		}

		if err := validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.TTS.Rate < 0.5 || cfg.TTS.Rate > 2.0 {
		return fmt.Errorf("invalid tts rate %.2f: must be within [0.5, 2.0]", cfg.TTS.Rate)
	}
	if cfg.TTS.Volume < 0.0 || cfg.TTS.Volume > 1.0 {
		return fmt.Errorf("invalid tts volume %.2f: must be within [0.0, 1.0]", cfg.TTS.Volume)
	}
	if cfg.Rehearsal.HintWords < 1 {
		return fmt.Errorf("invalid hint_words %d: must be at least 1", cfg.Rehearsal.HintWords)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ScenePartner Configuration
# --------------------------

`)
	data = append(header, data...)

	// Inject comments for Enum fields
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine: windows-sapi`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: windows-sapi, edge-tts, mock\n${1}engine: windows-sapi"))

	reSTT := regexp.MustCompile(`(?m)^(\s+)engine: vosk`)
	data = reSTT.ReplaceAll(data, []byte("${1}# Options: vosk, mock, off\n${1}engine: vosk"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
