// Package config defines the tracker configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address for `serve`, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Player identifies the single tracked player.
	Player PlayerConfig `koanf:"player"`

	// Seasons lists the regular seasons whose game logs feed the streak.
	Seasons []int `koanf:"seasons"`

	StatsAPI  StatsAPIConfig  `koanf:"statsapi"`
	Store     StoreConfig     `koanf:"store"`
	Reference ReferenceConfig `koanf:"reference"`
	Streak    StreakConfig    `koanf:"streak"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// PlayerConfig identifies the tracked player upstream and on the leaderboard.
type PlayerConfig struct {
	ID   int    `koanf:"id"`
	Name string `koanf:"name"`
	Team string `koanf:"team"`
}

// StatsAPIConfig tunes the upstream stats client.
type StatsAPIConfig struct {
	BaseURL           string  `koanf:"base_url"`
	TimeoutMS         int     `koanf:"timeout_ms"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
	FinalCacheSize    int     `koanf:"final_cache_size"`
}

// StoreConfig selects and configures the streak record backend.
type StoreConfig struct {
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SQLitePath string `koanf:"sqlite_path"`
	RedisAddr  string `koanf:"redis_addr"`
	RedisKey   string `koanf:"redis_key"`
}

// ReferenceConfig points at the historical leaderboard CSV. Empty Path uses
// the data set compiled into the binary.
type ReferenceConfig struct {
	Path string `koanf:"path"`
}

// StreakConfig holds state-machine policy switches.
type StreakConfig struct {
	// EndOnZero lets a computed streak of 0 end an active streak.
	EndOnZero bool `koanf:"end_on_zero"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		Player: PlayerConfig{
			ID:   656941,
			Name: "Kyle Schwarber",
			Team: "PHI",
		},
		Seasons: []int{2024, 2025},
		StatsAPI: StatsAPIConfig{
			BaseURL:           "https://statsapi.mlb.com",
			TimeoutMS:         10_000,
			RequestsPerSecond: 5,
			Burst:             2,
			FinalCacheSize:    256,
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			Path:       "schwarber_streak.json",
			SQLitePath: "onbase.db",
			RedisAddr:  "localhost:6379",
			RedisKey:   "onbase:streak",
		},
		Streak: StreakConfig{
			EndOnZero: true,
		},
		MaxLeaderboardLimit: 100,
	}
}

// Validate reports the first configuration problem, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Player.ID <= 0:
		return fmt.Errorf("%w: player.id must be positive", ErrInvalidConfig)
	case strings.TrimSpace(c.Player.Name) == "":
		return fmt.Errorf("%w: player.name must not be empty", ErrInvalidConfig)
	case len(c.Seasons) == 0:
		return fmt.Errorf("%w: at least one season is required", ErrInvalidConfig)
	case c.StatsAPI.BaseURL == "":
		return fmt.Errorf("%w: statsapi.base_url must not be empty", ErrInvalidConfig)
	case c.StatsAPI.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: statsapi.requests_per_second must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path must not be empty", ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path must not be empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" || c.Store.RedisKey == "" {
			return fmt.Errorf("%w: store.redis_addr and store.redis_key are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	return nil
}
