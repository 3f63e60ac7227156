// Package config loads brainmap configuration from environment
// variables and an optional YAML tuning file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spencrmartin/brainmap/internal/layout"
)

// Config holds all configuration values.
type Config struct {
	// Snapshot data service
	ServerURL    string
	FetchTimeout time.Duration

	// Frame streaming server
	ListenAddr string

	// Layout
	Mode       layout.Mode
	TuningFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		ServerURL:    getEnv("BRAINMAP_SERVER_URL", "http://localhost:8000"),
		FetchTimeout: parseDuration(getEnv("BRAINMAP_FETCH_TIMEOUT", "30s"), 30*time.Second),

		ListenAddr: getEnv("BRAINMAP_LISTEN_ADDR", ":8585"),

		Mode:       parseMode(getEnv("BRAINMAP_MODE", "universe")),
		TuningFile: getEnv("BRAINMAP_TUNING_FILE", ""),

		LogFile:  getEnv("BRAINMAP_LOG_FILE", "/tmp/brainmap.log"),
		LogLevel: parseLogLevel(getEnv("BRAINMAP_LOG_LEVEL", "INFO")),
	}
}

// tuning mirrors layout.Config with optional fields so the YAML file
// only overrides what it names.
type tuning struct {
	Width             *float64 `yaml:"width"`
	Height            *float64 `yaml:"height"`
	RepulsionStrength *float64 `yaml:"repulsion_strength"`
	LinkBaseDistance  *float64 `yaml:"link_base_distance"`
	SimilarityEpsilon *float64 `yaml:"similarity_epsilon"`
	LinkStrength      *float64 `yaml:"link_strength"`
	CollisionRadius   *float64 `yaml:"collision_radius"`
	CenterStrength    *float64 `yaml:"center_strength"`
	ClusterStrength   *float64 `yaml:"cluster_strength"`
	ClusterSpread     *float64 `yaml:"cluster_spread"`
	AlphaMin          *float64 `yaml:"alpha_min"`
	AlphaDecay        *float64 `yaml:"alpha_decay"`
	VelocityDecay     *float64 `yaml:"velocity_decay"`
	CoolingAlpha      *float64 `yaml:"cooling_alpha"`
	FrameIntervalMS   *int     `yaml:"frame_interval_ms"`
}

// LayoutConfig returns the layout defaults overlaid with the tuning
// file, when one is configured. An empty TuningFile means defaults.
func (c Config) LayoutConfig() (layout.Config, error) {
	cfg := layout.DefaultConfig()
	if c.TuningFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(c.TuningFile)
	if err != nil {
		return cfg, fmt.Errorf("read tuning file: %w", err)
	}
	var t tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return cfg, fmt.Errorf("parse tuning file: %w", err)
	}

	setF := func(dst, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&cfg.Width, t.Width)
	setF(&cfg.Height, t.Height)
	setF(&cfg.RepulsionStrength, t.RepulsionStrength)
	setF(&cfg.LinkBaseDistance, t.LinkBaseDistance)
	setF(&cfg.SimilarityEpsilon, t.SimilarityEpsilon)
	setF(&cfg.LinkStrength, t.LinkStrength)
	setF(&cfg.CollisionRadius, t.CollisionRadius)
	setF(&cfg.CenterStrength, t.CenterStrength)
	setF(&cfg.ClusterStrength, t.ClusterStrength)
	setF(&cfg.ClusterSpread, t.ClusterSpread)
	setF(&cfg.AlphaMin, t.AlphaMin)
	setF(&cfg.AlphaDecay, t.AlphaDecay)
	setF(&cfg.VelocityDecay, t.VelocityDecay)
	setF(&cfg.CoolingAlpha, t.CoolingAlpha)
	if t.FrameIntervalMS != nil {
		cfg.FrameInterval = time.Duration(*t.FrameIntervalMS) * time.Millisecond
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseMode(s string) layout.Mode {
	if strings.ToLower(s) == string(layout.ModeFlat) {
		return layout.ModeFlat
	}
	return layout.ModeUniverse
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
