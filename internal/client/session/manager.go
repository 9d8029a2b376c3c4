package session

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/AlibekovAA/user-profile/internal/client/api"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
)

type API interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	GetProfile(ctx context.Context, token string) (dto.User, error)
	UpdateProfile(ctx context.Context, token string, req dto.UpdateProfileRequest) (dto.UpdateProfileResponse, error)
}

var _ API = (*api.Client)(nil)

// Manager owns the client-side session: the token, the cached user and the
// Loading/Anonymous/Authenticated state. At most one network action runs at
// a time; a concurrent one fails with ErrBusy.
type Manager struct {
	api       API
	tokens    TokenStore
	validator *validation.Validator
	log       *logger.Logger

	busy atomic.Bool

	mu        sync.RWMutex
	state     State
	token     string
	user      dto.User
	observers []func(State)
}

func NewManager(client API, tokens TokenStore, validator *validation.Validator, log *logger.Logger) *Manager {
	if validator == nil {
		validator = validation.New(nil)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		api:       client,
		tokens:    tokens,
		validator: validator,
		log:       log,
		state:     StateLoading,
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns the cached user while authenticated.
func (m *Manager) User() (dto.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated {
		return dto.User{}, false
	}
	return m.user, true
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// OnChange registers fn to be called after every state transition.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Start restores a persisted session. Any failure to confirm the stored token
// discards it.
func (m *Manager) Start(ctx context.Context) error {
	if !m.acquire() {
		return ErrBusy
	}
	defer m.release()

	token, err := m.tokens.Load()
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{"action": "session_token_load_failed"}).Warnf("token load failed: %v", err)
	}
	if token == "" {
		m.becomeAnonymous(ctx)
		return nil
	}

	user, err := m.api.GetProfile(ctx, token)
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{"action": "session_restore_failed"}).Warnf("stored token rejected: %v", err)
		m.becomeAnonymous(ctx)
		return nil
	}

	m.becomeAuthenticated(token, user)
	return nil
}

func (m *Manager) Login(ctx context.Context, username, password string) (dto.User, error) {
	if !m.acquire() {
		return dto.User{}, ErrBusy
	}
	defer m.release()

	resp, err := m.api.Login(ctx, dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "session_login_failed",
		}).Debugf("login failed: %v", err)
		return dto.User{}, failure(err, fallbackLogin)
	}

	if err := m.tokens.Save(resp.Token); err != nil {
		return dto.User{}, &ActionError{Message: fallbackLogin, err: err}
	}
	m.becomeAuthenticated(resp.Token, resp.User)
	return resp.User, nil
}

func (m *Manager) Register(ctx context.Context, req dto.RegisterRequest) (dto.User, error) {
	if !m.acquire() {
		return dto.User{}, ErrBusy
	}
	defer m.release()

	resp, err := m.api.Register(ctx, req)
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"username": req.Username,
			"action":   "session_register_failed",
		}).Debugf("register failed: %v", err)
		return dto.User{}, failure(err, fallbackRegister)
	}

	if err := m.tokens.Save(resp.Token); err != nil {
		return dto.User{}, &ActionError{Message: fallbackRegister, err: err}
	}
	m.becomeAuthenticated(resp.Token, resp.User)
	return resp.User, nil
}

// Refresh re-reads the profile from the server.
func (m *Manager) Refresh(ctx context.Context) (dto.User, error) {
	if !m.acquire() {
		return dto.User{}, ErrBusy
	}
	defer m.release()

	token := m.Token()
	if token == "" {
		return dto.User{}, ErrNotAuthenticated
	}

	user, err := m.api.GetProfile(ctx, token)
	if err != nil {
		m.dropIfUnauthenticated(ctx, err)
		return dto.User{}, failure(err, fallbackProfile)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// UpdateProfile validates locally with the server's rules before sending.
func (m *Manager) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (dto.User, error) {
	req.Email = validation.NormalizeEmail(req.Email)
	fields := m.validator.ValidateProfile(validation.ProfileInput{
		Email: req.Email,
		Phone: req.Phone,
		DOB:   req.DOB,
	})
	if len(fields) > 0 {
		return dto.User{}, localValidationError(fields)
	}

	if !m.acquire() {
		return dto.User{}, ErrBusy
	}
	defer m.release()

	token := m.Token()
	if token == "" {
		return dto.User{}, ErrNotAuthenticated
	}

	resp, err := m.api.UpdateProfile(ctx, token, req)
	if err != nil {
		m.dropIfUnauthenticated(ctx, err)
		return dto.User{}, failure(err, fallbackUpdate)
	}

	m.mu.Lock()
	m.user = resp.User
	m.mu.Unlock()
	return resp.User, nil
}

// Logout forgets the token locally. It makes no network call and fails with
// ErrBusy while another action is in flight.
func (m *Manager) Logout() error {
	if !m.acquire() {
		return ErrBusy
	}
	defer m.release()

	err := m.tokens.Clear()
	m.setAnonymous()
	return err
}

func (m *Manager) acquire() bool {
	return m.busy.CompareAndSwap(false, true)
}

func (m *Manager) release() {
	m.busy.Store(false)
}

func (m *Manager) dropIfUnauthenticated(ctx context.Context, err error) {
	apiErr, ok := api.AsAPIError(err)
	if !ok || !apiErr.Unauthenticated() {
		return
	}
	m.log.WithFields(ctx, logger.Fields{
		"status": apiErr.Status,
		"action": "session_dropped",
	}).Info("session no longer valid")
	m.becomeAnonymous(ctx)
}

func (m *Manager) becomeAnonymous(ctx context.Context) {
	if err := m.tokens.Clear(); err != nil {
		m.log.WithFields(ctx, logger.Fields{"action": "session_token_clear_failed"}).Warnf("token clear failed: %v", err)
	}
	m.setAnonymous()
}

func (m *Manager) setAnonymous() {
	m.transition(StateAnonymous, "", dto.User{})
}

func (m *Manager) becomeAuthenticated(token string, user dto.User) {
	m.transition(StateAuthenticated, token, user)
}

func (m *Manager) transition(state State, token string, user dto.User) {
	m.mu.Lock()
	changed := m.state != state
	m.state = state
	m.token = token
	m.user = user
	observers := slices.Clone(m.observers)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(state)
	}
}
