package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/AlibekovAA/user-profile/internal/user/domain"
)

// MemoryRepository keeps users in process memory. It enforces the same
// uniqueness contract as the persistent stores.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[domain.ID]domain.User
	byUsername map[string]domain.ID
	byEmail    map[string]domain.ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[domain.ID]domain.User),
		byUsername: make(map[string]domain.ID),
		byEmail:    make(map[string]domain.ID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return ErrUsernameAlreadyExists
	}
	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailAlreadyExists
	}

	r.users[user.ID] = user
	r.byUsername[user.Username] = user.ID
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(r.byUsername, username)
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(r.byEmail, strings.ToLower(email))
}

func (r *MemoryRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, err := r.lookup(r.byUsername, identifier); err == nil {
		return user, nil
	}
	return r.lookup(r.byEmail, strings.ToLower(identifier))
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}

	oldEmail := strings.ToLower(user.Email)
	newEmail := strings.ToLower(update.Email)
	if newEmail != oldEmail {
		if owner, taken := r.byEmail[newEmail]; taken && owner != id {
			return domain.User{}, ErrEmailAlreadyExists
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[newEmail] = id
	}

	user = user.Apply(update)
	r.users[id] = user
	return user, nil
}

func (r *MemoryRepository) lookup(index map[string]domain.ID, key string) (domain.User, error) {
	id, ok := index[key]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return r.users[id], nil
}

var _ Repository = (*MemoryRepository)(nil)
