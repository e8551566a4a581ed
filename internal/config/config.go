package config

import (
	"aperturelab/internal/flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read once from the environment at startup
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"dev"`

	// Empty URIs fall back to in-process storage
	MongoURI string `env:"MONGO_URI"`
	MongoDB  string `env:"MONGO_DB" envDefault:"aperturelab"`
	RedisURI string `env:"REDIS_URI"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	StateTTL  time.Duration `env:"STATE_TTL" envDefault:"24h"`

	FlagBackend string `env:"FLAG_BACKEND" envDefault:"memory"`
	FlagAppName string `env:"FLAG_APP_NAME" envDefault:"aperturelab"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"aperturelab.db"`

	AutoAdvance bool   `env:"AUTO_ADVANCE" envDefault:"true"`
	QuizURL     string `env:"QUIZ_URL" envDefault:"/quiz"`

	CORS CORS `envPrefix:"CORS_ALLOWED_"`
}

type CORS struct {
	Origins string `env:"ORIGINS" envDefault:"*"`
	Methods string `env:"METHODS" envDefault:"GET, POST, PUT, DELETE, OPTIONS"`
	Headers string `env:"HEADERS" envDefault:"Content-Type, Authorization"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the chosen backends have what they need
func (c *Config) Validate() error {
	c.FlagBackend = strings.ToLower(strings.TrimSpace(c.FlagBackend))
	switch c.FlagBackend {
	case flag.BackendMemory, flag.BackendGdata:
	case flag.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("FLAG_BACKEND=sqlite requires SQLITE_PATH")
		}
	case flag.BackendRedis:
		if c.RedisURI == "" {
			return fmt.Errorf("FLAG_BACKEND=redis requires REDIS_URI")
		}
	case flag.BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("FLAG_BACKEND=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown FLAG_BACKEND %q", c.FlagBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 || c.StateTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL and STATE_TTL must be positive")
	}
	return nil
}

// RedisAddr strips an optional redis:// scheme
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}
