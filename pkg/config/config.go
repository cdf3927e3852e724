package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

// Config is resolved once at start. Precedence: process environment, then
// the .env file in the working directory, then the default tags below.
type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000"`
	BaseURL      string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables limiting.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"20"`

	DB struct {
		URL       string `envconfig:"CONNECTION_STRING"`
		Name      string `envconfig:"DB_NAME" default:"movies"`
		Host      string `envconfig:"DB_HOST" default:"localhost"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER" default:"postgres"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Upload struct {
		Dir string `envconfig:"UPLOAD_DIR" default:"public/uploads"`
	}
}

// Origins splits AllowOrigins on commas, dropping blanks.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
