package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8081"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// BaseURL is the public address used when building avatar URLs.
	BaseURL      string `env:"BASE_URL" envDefault:"http://localhost:8081"`
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"data/huddle.json"`
	AvatarDir    string `env:"AVATAR_DIR" envDefault:"data/avatars"`

	TokenSecret string `env:"TOKEN_SECRET" envDefault:"dev-only-secret"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@huddle.local"`
}

// Load reads configuration from the environment, first merging a local .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
