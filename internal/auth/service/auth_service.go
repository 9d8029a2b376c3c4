package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

type tokenIssuer interface {
	Issue(user userdomain.User) (IssuedToken, error)
}

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      tokenIssuer
	validator   *validation.Validator
	clock       clock.Clock
	log         *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	tokens tokenIssuer,
	validator *validation.Validator,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		validator:   validator,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	DOB      string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      userdomain.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Username = validation.NormalizeUsername(input.Username)
	input.Email = validation.NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	fields := s.validator.ValidateRegistration(validation.RegistrationInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
		DOB:      input.DOB,
	})
	if err := validation.Error(fields); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration(resultInvalid)
		return AuthResult{}, err
	}

	if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return AuthResult{}, err
	}

	dob, err := validation.ParseDate(input.DOB)
	if err != nil {
		recordRegistration(resultInvalid)
		return AuthResult{}, commonerrors.NewValidationError([]commonerrors.FieldError{
			{Field: "dob", Message: "dob must be a valid ISO 8601 date"},
		})
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		recordRegistration(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now().UTC()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		DOB:          dob,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if conflict := conflictError(err); conflict != nil {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_conflict",
			}).Warnf("register failed: %v", err)
			recordRegistration(resultConflict)
			return AuthResult{}, conflict
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	recordRegistration(resultSuccess)

	return AuthResult{Token: token.Value, ExpiresAt: token.ExpiresAt, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	identifier := validation.NormalizeUsername(input.Username)

	s.log.WithFields(ctx, logger.Fields{
		"username": identifier,
		"action":   "login_attempt",
	}).Info("login attempt")

	fields := s.validator.ValidateLogin(validation.LoginInput{Username: identifier, Password: input.Password})
	if err := validation.Error(fields); err != nil {
		recordLogin(resultInvalid)
		return AuthResult{}, err
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Burn a comparable amount of time so a missing user is not
			// distinguishable from a wrong password.
			_ = s.hasher.Compare(s.dummyPasswordHash(), input.Password)
			s.log.WithFields(ctx, logger.Fields{
				"username": identifier,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin(resultBadCreds)
			return AuthResult{}, commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": identifier,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": identifier,
			"user_id":  string(user.ID),
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLogin(resultBadCreds)
		return AuthResult{}, commonerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": identifier,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin(resultInternal)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	recordLogin(resultSuccess)

	return AuthResult{Token: token.Value, ExpiresAt: token.ExpiresAt, User: user}, nil
}

// ensureAvailable is a fast pre-check. The store's unique indexes remain the
// authority when two registrations race.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_username_exists",
		}).Warn("register failed: username already exists")
		recordRegistration(resultConflict)
		return commonerrors.ErrUsernameTaken
	} else if !errors.Is(err, userrepo.ErrUserNotFound) {
		recordRegistration(resultInternal)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_email_exists",
		}).Warn("register failed: email already in use")
		recordRegistration(resultConflict)
		return commonerrors.ErrEmailTaken
	} else if !errors.Is(err, userrepo.ErrUserNotFound) {
		recordRegistration(resultInternal)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	return nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}

func conflictError(err error) error {
	switch {
	case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
		return commonerrors.ErrUsernameTaken.WithCause(err)
	case errors.Is(err, userrepo.ErrEmailAlreadyExists):
		return commonerrors.ErrEmailTaken.WithCause(err)
	default:
		return nil
	}
}
