package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/radar-overlay/internal/radar"
	"github.com/i474232898/radar-overlay/internal/radar/providers"
)

type AppConfig struct {
	// Upstream nowcast feed and tile pattern.
	FeedURL        string
	TileURLPattern string

	// Overlay registration defaults.
	LayerKey    string
	BeforeLayer string        // empty = top of the stack
	Window      time.Duration // eligibility window

	// Layers present on the served base style, bottom to top.
	BaseLayers []string

	HTTPTimeout time.Duration

	// ProbeInterval controls how often the scheduler checks the feed.
	ProbeInterval time.Duration

	// In-memory history retention.
	HistoryMax    int           // max number of probes (0 = unlimited)
	HistoryMaxAge time.Duration // max age of probes (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.FeedURL = getenvDefault("RADAR_FEED_URL", providers.DefaultJMAFeedURL)
	cfg.TileURLPattern = getenvDefault("RADAR_TILE_URL_PATTERN", radar.DefaultTileURLPattern)
	if !strings.Contains(cfg.TileURLPattern, "{z}") ||
		!strings.Contains(cfg.TileURLPattern, "{x}") ||
		!strings.Contains(cfg.TileURLPattern, "{y}") {
		return nil, fmt.Errorf("invalid RADAR_TILE_URL_PATTERN: must contain {z}, {x} and {y}")
	}

	cfg.LayerKey = getenvDefault("RADAR_LAYER_KEY", radar.DefaultKey)
	cfg.BeforeLayer = os.Getenv("RADAR_BEFORE_LAYER")
	cfg.BaseLayers = splitList(os.Getenv("STYLE_BASE_LAYERS"))

	var err error
	if cfg.Window, err = getenvDuration("RADAR_WINDOW", "10m"); err != nil {
		return nil, err
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("invalid RADAR_WINDOW: must be positive")
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval < time.Minute {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: must be at least 1m")
	}

	// Store retention.
	cfg.HistoryMax = getenvInt("HISTORY_MAX", 288) // 24h at 5-minute intervals
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
