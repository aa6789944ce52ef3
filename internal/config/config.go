// Package config loads the immutable service configuration once at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is constructed at startup and passed to the components that need it.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
		Level      string `yaml:"level"`
	} `yaml:"logger"`

	Cards struct {
		Dir             string `yaml:"dir"`
		TemplatePath    string `yaml:"template_path"`
		MaxMessageChars int    `yaml:"max_message_chars"`
	} `yaml:"cards"`

	Admin struct {
		Password     string `yaml:"password"`
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"admin"`

	RateLimiter struct {
		UserLimit   int    `yaml:"user_limit"`
		IntervalStr string `yaml:"interval"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisDB     int    `yaml:"redis_db"`

		Interval time.Duration `yaml:"-"`
	} `yaml:"rate_limiter"`

	// Box is the message region on the template page, in PDF points with the
	// origin at the bottom-left corner.
	Box struct {
		Left       float64 `yaml:"left"`
		Right      float64 `yaml:"right"`
		Top        float64 `yaml:"top"`
		Bottom     float64 `yaml:"bottom"`
		LineHeight float64 `yaml:"line_height"`
	} `yaml:"box"`
}

// Default returns the built-in configuration. The box geometry matches the
// bundled farewell card template.
func Default() Config {
	var cfg Config
	cfg.Server.Port = ":8080"
	cfg.Logger.Level = "info"
	cfg.Cards.Dir = "data/cards"
	cfg.Cards.TemplatePath = "assets/farewell_card_template.pdf"
	cfg.Cards.MaxMessageChars = 2000
	cfg.RateLimiter.Interval = time.Minute
	cfg.Box.Left = 230
	cfg.Box.Right = 670
	cfg.Box.Top = 700
	cfg.Box.Bottom = 220
	cfg.Box.LineHeight = 18
	return cfg
}

// Load reads the config file named by CONFIG_PATH, or config.yaml when unset.
// A missing file yields the defaults.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom decodes path over the defaults and validates the result. Invalid
// values panic: a service with broken configuration should not come up.
func LoadFrom(path string) Config {
	cfg := Default()

	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		panic(fmt.Sprintf("config: parse %s: %v", path, err))
	}

	if cfg.RateLimiter.IntervalStr != "" {
		d, err := time.ParseDuration(cfg.RateLimiter.IntervalStr)
		if err != nil || d <= 0 {
			panic(fmt.Sprintf("config: invalid rate_limiter.interval %q", cfg.RateLimiter.IntervalStr))
		}
		cfg.RateLimiter.Interval = d
	}
	if cfg.RateLimiter.UserLimit < 0 {
		panic(fmt.Sprintf("config: negative rate_limiter.user_limit %d", cfg.RateLimiter.UserLimit))
	}
	if cfg.Cards.Dir == "" {
		panic("config: cards.dir must not be empty")
	}
	if cfg.Cards.TemplatePath == "" {
		panic("config: cards.template_path must not be empty")
	}
	if cfg.Box.Right <= cfg.Box.Left || cfg.Box.Top <= cfg.Box.Bottom {
		panic("config: box must have positive width and height")
	}
	if cfg.Box.LineHeight <= 0 {
		panic("config: box.line_height must be positive")
	}
	return cfg
}
