package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadFrom_Valid(t *testing.T) {
	p := writeConfig(t, `server:
  port: ":9000"
cards:
  dir: "/tmp/cards"
  max_message_chars: 500
rate_limiter:
  user_limit: 5
  interval: 30s
box:
  line_height: 20
`)
	cfg := LoadFrom(p)
	if cfg.Server.Port != ":9000" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
	if cfg.Cards.Dir != "/tmp/cards" {
		t.Fatalf("unexpected cards dir: %q", cfg.Cards.Dir)
	}
	if cfg.Cards.MaxMessageChars != 500 {
		t.Fatalf("unexpected max_message_chars: %d", cfg.Cards.MaxMessageChars)
	}
	if cfg.RateLimiter.Interval != 30*time.Second {
		t.Fatalf("unexpected interval: %v", cfg.RateLimiter.Interval)
	}
	if cfg.Box.LineHeight != 20 {
		t.Fatalf("unexpected line_height: %v", cfg.Box.LineHeight)
	}
	// Untouched fields keep their defaults.
	if cfg.Box.Left != 230 || cfg.Box.Right != 670 {
		t.Fatalf("expected default box geometry, got %+v", cfg.Box)
	}
}

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Server.Port != ":8080" || cfg.Cards.MaxMessageChars != 2000 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFrom_PanicsOnInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{name: "invalid interval", yml: "rate_limiter:\n  interval: nope\n"},
		{name: "negative user limit", yml: "rate_limiter:\n  user_limit: -1\n"},
		{name: "empty cards dir", yml: "cards:\n  dir: \"\"\n"},
		{name: "inverted box", yml: "box:\n  left: 700\n  right: 200\n"},
		{name: "zero line height", yml: "box:\n  line_height: 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeConfig(t, tc.yml)
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			_ = LoadFrom(p)
		})
	}
}

func TestLoad_UsesConfigPathEnv(t *testing.T) {
	p := writeConfig(t, `server:
  port: ":7001"
`)
	t.Setenv("CONFIG_PATH", p)
	cfg := Load()
	if cfg.Server.Port != ":7001" {
		t.Fatalf("expected CONFIG_PATH to be used")
	}
}
