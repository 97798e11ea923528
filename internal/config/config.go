package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration. It is built once in LoadConfig and
// handed to every component that needs it.
type Config struct {
	Server struct {
		Port           string `env:"SERVER_PORT"`
		Mode           string `env:"SERVER_MODE"`
		UploadDir      string `env:"UPLOAD_DIR"`
		MaxUploadBytes int64  `env:"UPLOAD_MAX_BYTES"`
	}

	Database struct {
		Host            string `env:"DB_HOST"`
		Port            string `env:"DB_PORT"`
		User            string `env:"DB_USER"`
		Password        string `env:"DB_PASSWORD"`
		DBName          string `env:"DB_NAME"`
		SSLMode         string `env:"DB_SSLMODE"`
		MaxConns        int    `env:"DB_MAX_CONNS"`
		MinConns        int    `env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `env:"DB_CONN_MAX_LIFETIME"`
	}

	JWT struct {
		Secret string `env:"JWT_SECRET"`
		Issuer string `env:"JWT_ISSUER"`
	}

	RateLimit struct {
		Enabled  bool          `env:"RATE_LIMIT_ENABLED"`
		Requests int           `env:"RATE_LIMIT_REQUESTS"`
		Window   time.Duration `env:"RATE_LIMIT_WINDOW"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB"`
	}

	Scheduler struct {
		PostingCloseSchedule string `env:"POSTING_CLOSE_SCHEDULE"`
	}

	Seed struct {
		Skills bool `env:"SEED_SKILLS"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT"`
	}
}

// LoadConfig reads an optional dotenv file, applies defaults and then overrides
// them from the process environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	return loadFrom(os.LookupEnv)
}

func loadFrom(lookup lookupFunc) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if err := processStructFields(config, lookup); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.UploadDir = "uploads"
	config.Server.MaxUploadBytes = 5 << 20

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "placement_db"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.Issuer = "placement-api"

	config.RateLimit.Enabled = true
	config.RateLimit.Requests = 10
	config.RateLimit.Window = time.Minute

	config.Scheduler.PostingCloseSchedule = "@every 1h"
	config.Seed.Skills = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	if config.Database.MaxConns <= 0 || config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", config.Database.MinConns, config.Database.MaxConns)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("upload size limit must be positive")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requires positive requests and window")
	}

	return nil
}

// ConnMaxLifetime returns the parsed pool connection lifetime.
func (c *Config) ConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.Database.ConnMaxLifetime)
	if err != nil {
		return time.Hour
	}
	return d
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}
