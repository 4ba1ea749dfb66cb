package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"SquareUp"`
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"squareup"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
		OTPTTL    time.Duration `envconfig:"OTP_TTL" default:"10m"`
	}

	Email struct {
		From          string `envconfig:"EMAIL_FROM" default:"noreply@squareup.app"`
		FromName      string `envconfig:"EMAIL_FROM_NAME" default:"SquareUp"`
		ResendKey     string `envconfig:"RESEND_API_KEY"`
		MailerSendKey string `envconfig:"MAILERSEND_API_KEY"`
	}

	RateLimit struct {
		PerSecond float64 `envconfig:"RATE_LIMIT_PER_SECOND" default:"5"`
		Burst     int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
