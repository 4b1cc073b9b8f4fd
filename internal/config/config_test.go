package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: "9090"
redis:
  addr: "localhost:6379"
  ttl: 10m
game:
  leaderboard_limit: 20
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BRAINBUZZ_REDIS__ADDR", "redis:6380")
	t.Setenv("BRAINBUZZ_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected file port, got %q", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Fatalf("expected env to override redis addr, got %q", cfg.Redis.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
	if cfg.Bank.TTL != "5m" {
		t.Fatalf("expected default bank ttl, got %q", cfg.Bank.TTL)
	}
	if cfg.Game.LeaderboardLimit != 20 || cfg.Game.MaxLeaderboardLimit != 50 {
		t.Fatalf("unexpected leaderboard limits %+v", cfg.Game)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Game.LeaderboardLimit != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bad input, got %s", got)
	}
}
