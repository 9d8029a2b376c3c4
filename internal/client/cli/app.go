package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlibekovAA/user-profile/internal/client/api"
	"github.com/AlibekovAA/user-profile/internal/client/session"
	"github.com/AlibekovAA/user-profile/internal/common/config"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
)

// App carries what every command needs. The session is built lazily from
// the flags so that flag values are final by the time it exists.
type App struct {
	cfg    config.ClientConfig
	reader *bufio.Reader
	log    *logger.Logger

	manager *session.Manager
}

func NewApp(cfg config.ClientConfig, in io.Reader) *App {
	if in == nil {
		in = os.Stdin
	}
	return &App{
		cfg:    cfg,
		reader: bufio.NewReader(in),
		log:    logger.NewWithWriter(os.Stderr, "profilectl", cfg.LogLevel),
	}
}

// session returns a manager restored from the stored token.
func (a *App) session(ctx context.Context) (*session.Manager, error) {
	m, err := a.localSession()
	if err != nil {
		return nil, err
	}
	if m.State() != session.StateLoading {
		return m, nil
	}

	if err := m.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return m, nil
}

// localSession returns a manager that has not contacted the server. Commands
// that replace or drop the stored token use it directly.
func (a *App) localSession() (*session.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}

	store, err := session.NewFileTokenStore(a.cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(a.cfg.ServerURL, api.WithTimeout(a.cfg.Timeout))
	m := session.NewManager(client, store, validation.New(nil), a.log)
	m.OnChange(func(s session.State) {
		a.log.Debugf("session state: %s", s)
	})

	a.manager = m
	return m, nil
}
