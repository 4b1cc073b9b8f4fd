package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. BRAINBUZZ_REDIS__ADDR.
const EnvPrefix = "BRAINBUZZ_"

type Config struct {
	LogLevel string `koanf:"log_level"`
	Server   struct {
		Port string `koanf:"port"`
	} `koanf:"server"`
	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
		TTL      string `koanf:"ttl"`
	} `koanf:"redis"`
	Postgres struct {
		URL string `koanf:"url"`
	} `koanf:"postgres"`
	Firebase struct {
		ProjectID       string `koanf:"project_id"`
		CredentialsFile string `koanf:"credentials_file"`
	} `koanf:"firebase"`
	SQLite struct {
		Path string `koanf:"path"`
	} `koanf:"sqlite"`
	Bank struct {
		TTL string `koanf:"ttl"`
	} `koanf:"bank"`
	Game struct {
		AdvanceDelay        string `koanf:"advance_delay"`
		LeaderboardLimit    int    `koanf:"leaderboard_limit"`
		MaxLeaderboardLimit int    `koanf:"max_leaderboard_limit"`
	} `koanf:"game"`
}

// Default returns the built-in settings every source overrides.
func Default() Config {
	var cfg Config
	cfg.LogLevel = "info"
	cfg.Server.Port = "8080"
	cfg.Bank.TTL = "5m"
	cfg.Game.AdvanceDelay = "2s"
	cfg.Game.LeaderboardLimit = 10
	cfg.Game.MaxLeaderboardLimit = 50
	return cfg
}

// Load layers defaults, the YAML file at path (skipped when it does not
// exist) and BRAINBUZZ_ environment variables, in that order. A double
// underscore in a variable name separates nesting levels.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}
	if cfg.Game.MaxLeaderboardLimit < cfg.Game.LeaderboardLimit {
		cfg.Game.MaxLeaderboardLimit = cfg.Game.LeaderboardLimit
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
