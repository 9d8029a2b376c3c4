package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/user-profile/internal/user/domain"
)

// Repository is the credential store. Implementations enforce username and
// email uniqueness themselves and report violations as ErrUsernameAlreadyExists
// or ErrEmailAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error)
	UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error)
}

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

func conflictFromConstraint(name string) error {
	switch name {
	case usernameConstraint:
		return ErrUsernameAlreadyExists
	case emailConstraint:
		return ErrEmailAlreadyExists
	default:
		return nil
	}
}
