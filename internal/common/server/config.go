package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/user-profile/internal/common/config"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
)

// writeTimeoutMargin is added on top of the per-request deadline so a
// handler can still write its timeout envelope.
const writeTimeoutMargin = 5 * time.Second

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	DrainTimeout      time.Duration
}

func DefaultConfig(port string) Config {
	return Config{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
		ShutdownTimeout:   constants.ShutdownTimeout,
		DrainTimeout:      constants.DrainTimeout,
	}
}

// FromServiceConfig builds listener settings from the service environment.
func FromServiceConfig(cfg config.ServerConfig) Config {
	c := DefaultConfig(cfg.HTTPPort)
	if cfg.ShutdownTimeout > 0 {
		c.ShutdownTimeout = cfg.ShutdownTimeout
	}
	if cfg.DrainTimeout >= 0 {
		c.DrainTimeout = cfg.DrainTimeout
	}
	if floor := cfg.RequestTimeout + writeTimeoutMargin; c.WriteTimeout < floor {
		c.WriteTimeout = floor
	}
	return c
}

func New(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
