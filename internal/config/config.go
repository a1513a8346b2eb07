package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server settings read from the environment.
type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Converter fan-out per deck
	RenderWorkers int

	// Upload limits
	MaxUploadBytes int64

	// Slides longer than this many estimated tokens are split
	MaxSlideTokens int
	SlideOverlap   int // tokens repeated between continuation slides

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Navigator assets: served from AssetsDir when set, and referenced by
	// rendered decks through DeckAssetsURL.
	AssetsDir     string
	DeckAssetsURL string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("ASCIISLIDE_API_KEY"),

		WorkerCount:   envInt("WORKER_COUNT", 4),
		MaxQueueSize:  envInt("MAX_QUEUE_SIZE", 100),
		RenderWorkers: envInt("RENDER_WORKERS", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20<<20), // 20MB

		MaxSlideTokens: envInt("MAX_SLIDE_TOKENS", 250),
		SlideOverlap:   envInt("SLIDE_OVERLAP_TOKENS", 0),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		AssetsDir:     os.Getenv("ASSETS_DIR"),
		DeckAssetsURL: envOr("DECK_ASSETS_URL", "/assets"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.RenderWorkers <= 0 {
		cfg.RenderWorkers = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.MaxSlideTokens < 0 {
		cfg.MaxSlideTokens = 0
	}
	if cfg.SlideOverlap < 0 {
		cfg.SlideOverlap = 0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ASCIISLIDE_API_KEY is required")
	}
	if c.AssetsDir != "" {
		info, err := os.Stat(c.AssetsDir)
		if err != nil {
			return fmt.Errorf("ASSETS_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("ASSETS_DIR %s is not a directory", c.AssetsDir)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
