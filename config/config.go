package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	TranslatorGoogle = "google"
	TranslatorOpenAI = "openai"
	TranslatorNone   = "none"
)

type Config struct {
	Env      string
	LogLevel string

	HTTPAddress    string
	MaxUploadBytes int64

	TranslatorBackend string
	TranslateTimeout  time.Duration
	OpenAIAPIKey      string
	OpenAIModel       string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	StripMarkdown bool
}

// FromEnv reads the process environment; call LoadEnv first to pull in an env file.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:               getEnv("APP_ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPAddress:       getEnv("HTTP_ADDRESS", ":8080"),
		TranslatorBackend: strings.ToLower(getEnv("TRANSLATOR_BACKEND", TranslatorGoogle)),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		ValkeyAddress:     os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:    os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:         os.Getenv("VALKEY_TLS") == "true",
		StripMarkdown:     os.Getenv("STRIP_MARKDOWN") == "true",
	}

	timeout, err := time.ParseDuration(getEnv("TRANSLATE_TIMEOUT", "10s"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TRANSLATE_TIMEOUT: %w", err)
	}
	cfg.TranslateTimeout = timeout

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "33554432"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return cfg, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}
	cfg.MaxUploadBytes = maxUpload

	switch cfg.TranslatorBackend {
	case TranslatorGoogle, TranslatorNone:
	case TranslatorOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return cfg, fmt.Errorf("TRANSLATOR_BACKEND=openai requires OPENAI_API_KEY")
		}
	default:
		return cfg, fmt.Errorf("unknown TRANSLATOR_BACKEND %q, expected google, openai or none", cfg.TranslatorBackend)
	}

	slog.Debug("[Config] Loaded configuration",
		slog.String("env", cfg.Env),
		slog.String("translator", cfg.TranslatorBackend),
		slog.Bool("translation_cache", cfg.ValkeyAddress != ""))
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
