package bootstrap

import (
	"context"
	"fmt"

	authservice "github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/config"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	"github.com/AlibekovAA/user-profile/internal/common/db"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/mongodb"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	profileservice "github.com/AlibekovAA/user-profile/internal/profile/service"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

type App struct {
	Log    *logger.Logger
	Config config.ServerConfig

	UserRepo       userrepo.Repository
	Tokens         *authservice.TokenIssuer
	AuthService    *authservice.AuthService
	ProfileService *profileservice.ProfileService
	HealthCheck    commonhttp.HealthCheck

	closers []func(ctx context.Context) error
}

// NewApp loads configuration from the environment and wires the service.
func NewApp(ctx context.Context, serviceName string) (*App, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewAppWithConfig(ctx, log, cfg, clock.NewRealClock())
}

func NewAppWithConfig(ctx context.Context, log *logger.Logger, cfg config.ServerConfig, clk clock.Clock) (*App, error) {
	app := &App{Log: log, Config: cfg}

	if err := app.initStore(ctx); err != nil {
		_ = app.Close(context.Background())
		return nil, err
	}

	validator := validation.New(clk)
	idGenerator := commoncrypto.NewUUIDGenerator()
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)

	app.Tokens = authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.TokenTTL, clk)
	app.AuthService = authservice.NewAuthService(app.UserRepo, hasher, idGenerator, app.Tokens, validator, clk, log)
	app.ProfileService = profileservice.NewProfileService(app.UserRepo, validator, clk, log)

	log.Infof("store driver: %s, token ttl: %s, bcrypt cost: %d", cfg.StoreDriver, cfg.TokenTTL, hasher.Cost())
	return app, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StoreDriverPostgres:
		if err := db.Migrate(ctx, a.Log, a.Config.DatabaseURL); err != nil {
			return err
		}
		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		a.UserRepo = userrepo.NewPgRepository(pool, a.Log)
		a.HealthCheck = func(ctx context.Context) error {
			return pool.Ping(ctx)
		}

	case config.StoreDriverMongo:
		client, err := mongodb.Connect(ctx, a.Log, a.Config.MongoURI, a.Config.MongoDatabase)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		repo := userrepo.NewMongoRepository(client.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		a.UserRepo = repo
		a.HealthCheck = client.Ping

	case config.StoreDriverMemory:
		a.Log.Warn("using in-memory store: data is lost on restart")
		a.UserRepo = userrepo.NewMemoryRepository()

	default:
		return fmt.Errorf("%w: %q", commonerrors.ErrUnknownStoreDriver, a.Config.StoreDriver)
	}
	return nil
}

// Close releases store connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
