package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

type ProfileService struct {
	repo      userrepo.Repository
	validator *validation.Validator
	clock     clock.Clock
	log       *logger.Logger
}

func NewProfileService(
	repo userrepo.Repository,
	validator *validation.Validator,
	clk clock.Clock,
	log *logger.Logger,
) *ProfileService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &ProfileService{
		repo:      repo,
		validator: validator,
		clock:     clk,
		log:       log,
	}
}

type UpdateInput struct {
	Email string
	Phone string
	DOB   string
}

func (s *ProfileService) GetProfile(ctx context.Context, userID userdomain.ID) (userdomain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(userID),
				"action":  "profile_get_not_found",
			}).Warn("profile fetch failed: user not found")
			recordRead(resultNotFound)
			return userdomain.User{}, commonerrors.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "profile_get_failed",
		}).Errorf("profile fetch failed: %v", err)
		recordRead(resultInternal)
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	recordRead(resultSuccess)
	return user, nil
}

// UpdateProfile replaces email, phone and dob. Username and password are not
// changed here.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID userdomain.ID, input UpdateInput) (userdomain.User, error) {
	input.Email = validation.NormalizeEmail(input.Email)

	fields := s.validator.ValidateProfile(validation.ProfileInput{
		Email: input.Email,
		Phone: input.Phone,
		DOB:   input.DOB,
	})
	if err := validation.Error(fields); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "profile_update_validation_failed",
		}).Warnf("profile update validation failed: %v", err)
		recordUpdate(resultInvalid)
		return userdomain.User{}, err
	}

	dob, err := validation.ParseDate(input.DOB)
	if err != nil {
		recordUpdate(resultInvalid)
		return userdomain.User{}, commonerrors.NewValidationError([]commonerrors.FieldError{
			{Field: "dob", Message: "dob must be a valid ISO 8601 date"},
		})
	}

	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			recordUpdate(resultNotFound)
			return userdomain.User{}, commonerrors.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "profile_update_fetch_failed",
		}).Errorf("profile update failed: %v", err)
		recordUpdate(resultInternal)
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if input.Email != current.Email {
		if err := s.ensureEmailAvailable(ctx, userID, input.Email); err != nil {
			return userdomain.User{}, err
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, userdomain.ProfileUpdate{
		Email:     input.Email,
		Phone:     input.Phone,
		DOB:       dob,
		UpdatedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailAlreadyExists):
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(userID),
				"action":  "profile_update_email_conflict",
			}).Warn("profile update failed: email claimed concurrently")
			recordEmailConflict(stageStore)
			recordUpdate(resultConflict)
			return userdomain.User{}, commonerrors.ErrEmailTaken.WithCause(err)
		case errors.Is(err, userrepo.ErrUserNotFound):
			recordUpdate(resultNotFound)
			return userdomain.User{}, commonerrors.ErrUserNotFound
		default:
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(userID),
				"action":  "profile_update_failed",
			}).Errorf("profile update failed: %v", err)
			recordUpdate(resultInternal)
			return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
		}
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "profile_update_success",
	}).Info("profile updated")
	recordUpdate(resultSuccess)

	return updated, nil
}

func (s *ProfileService) ensureEmailAvailable(ctx context.Context, userID userdomain.ID, email string) error {
	owner, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && owner.ID != userID:
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "profile_update_email_taken",
		}).Warn("profile update failed: email already in use")
		recordEmailConflict(stagePrecheck)
		recordUpdate(resultConflict)
		return commonerrors.ErrEmailTaken
	case err == nil, errors.Is(err, userrepo.ErrUserNotFound):
		return nil
	default:
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "profile_update_email_lookup_failed",
		}).Errorf("profile update failed: %v", err)
		recordUpdate(resultInternal)
		return commonerrors.ErrInternalError.WithCause(err)
	}
}
