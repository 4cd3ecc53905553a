package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Centavo"`
		Port    int    `envconfig:"PORT" default:"8080"`
		BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:""`
		Name         string `envconfig:"DB_NAME" default:"centavo"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	}

	Auth struct {
		// Fallback secrets are for local development only.
		AccessSecret  string        `envconfig:"ACCESS_TOKEN_SECRET" default:"centavo-dev-access-secret"`
		RefreshSecret string        `envconfig:"REFRESH_TOKEN_SECRET" default:"centavo-dev-refresh-secret"`
		AccessTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
		RefreshTTL    time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	}

	Uploads struct {
		Dir string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	}

	Retry struct {
		Delay time.Duration `envconfig:"RETRY_DELAY" default:"100ms"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
