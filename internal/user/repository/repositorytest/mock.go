// Package repositorytest provides a function-field Repository double for
// service tests.
package repositorytest

import (
	"context"
	"sync"

	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

type MockRepository struct {
	CreateFunc                func(ctx context.Context, user userdomain.User) error
	FindByIDFunc              func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	FindByUsernameFunc        func(ctx context.Context, username string) (userdomain.User, error)
	FindByEmailFunc           func(ctx context.Context, email string) (userdomain.User, error)
	FindByUsernameOrEmailFunc func(ctx context.Context, identifier string) (userdomain.User, error)
	UpdateProfileFunc         func(ctx context.Context, id userdomain.ID, update userdomain.ProfileUpdate) (userdomain.User, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockRepository) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockRepository) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockRepository) Create(ctx context.Context, user userdomain.User) error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	m.record("FindByID")
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	m.record("FindByUsername")
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	m.record("FindByEmail")
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *MockRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (userdomain.User, error) {
	m.record("FindByUsernameOrEmail")
	if m.FindByUsernameOrEmailFunc != nil {
		return m.FindByUsernameOrEmailFunc(ctx, identifier)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id userdomain.ID, update userdomain.ProfileUpdate) (userdomain.User, error) {
	m.record("UpdateProfile")
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

var _ userrepo.Repository = (*MockRepository)(nil)
