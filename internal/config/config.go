package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config stores runtime configuration for the client.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	Preview PreviewConfig
	Audio   AudioConfig
}

type APIConfig struct {
	BaseURL string
}

type StorageConfig struct {
	Path string
}

type PreviewConfig struct {
	Dir string
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
	ChunkSize       int
}

// Load resolves configuration from environment variables and sensible
// defaults.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	storagePath := strings.TrimSpace(os.Getenv("SENTIMENT_STORAGE_FILE"))
	if storagePath == "" {
		storagePath = filepath.Join(home, ".config", "sentiment-frontend", "chats.json")
	}

	cfg := Config{
		API: APIConfig{
			BaseURL: envOrDefault("SENTIMENT_API_BASE", "http://localhost:8000"),
		},
		Storage: StorageConfig{
			Path: storagePath,
		},
		Preview: PreviewConfig{
			Dir: strings.TrimSpace(os.Getenv("SENTIMENT_PREVIEW_DIR")),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("SENTIMENT_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("SENTIMENT_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("SENTIMENT_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("SENTIMENT_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("SENTIMENT_CHANNELS", 1),
			ChunkSize:       envOrDefaultInt("SENTIMENT_AUDIO_CHUNK_SIZE", 4096),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.ChunkSize < 256 {
		cfg.Audio.ChunkSize = 4096
	}

	return cfg, nil
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
