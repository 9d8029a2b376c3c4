package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type ServerConfig struct {
	HTTPPort           string        `env:"PROFILE_HTTP_PORT" envDefault:"5000"`
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	MongoURI           string        `env:"MONGO_URI"`
	MongoDatabase      string        `env:"MONGO_DATABASE" envDefault:"userprofile"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"12"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	DrainTimeout       time.Duration `env:"DRAIN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogDir             string        `env:"LOG_DIR"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"INFO"`
}

type ClientConfig struct {
	ServerURL string        `env:"PROFILECTL_SERVER" envDefault:"http://localhost:5000"`
	Timeout   time.Duration `env:"PROFILECTL_TIMEOUT" envDefault:"10s"`
	TokenFile string        `env:"PROFILECTL_TOKEN_FILE"`
	LogLevel  string        `env:"PROFILECTL_LOG_LEVEL" envDefault:"WARNING"`
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := parseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func LoadClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := parseEnv(&cfg); err != nil {
		return ClientConfig{}, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultClientTimeout
	}
	return cfg, nil
}

func (c ServerConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", commonerrors.ErrMissingRequiredEnv)
	}
	if err := validateJWTSecret(c.JWTSecret); err != nil {
		return err
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", commonerrors.ErrMissingRequiredEnv)
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI", commonerrors.ErrMissingRequiredEnv)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("%w: %q", commonerrors.ErrUnknownStoreDriver, c.StoreDriver)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.DrainTimeout < 0 {
		return fmt.Errorf("DRAIN_TIMEOUT must not be negative, got %s", c.DrainTimeout)
	}
	return nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
