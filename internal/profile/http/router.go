package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/jwtverify"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/mapper"
	"github.com/AlibekovAA/user-profile/internal/profile/service"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
)

const updateSuccessMessage = "Profile updated successfully"

type ProfileService interface {
	GetProfile(ctx context.Context, userID userdomain.ID) (userdomain.User, error)
	UpdateProfile(ctx context.Context, userID userdomain.ID, input service.UpdateInput) (userdomain.User, error)
}

type Handler struct {
	profiles     ProfileService
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(profiles ProfileService, verifier jwtverify.TokenVerifier, log *logger.Logger, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	h := &Handler{
		profiles:     profiles,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}

	mux := http.NewServeMux()
	mux.Handle("/api/user/profile", jwtverify.Middleware(verifier, log)(commonhttp.WithTimeout(timeout)(h.profile)))
	return mux
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return
	}

	user, err := h.profiles.GetProfile(r.Context(), userdomain.ID(claims.UserID))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return
	}

	var req dto.UpdateProfileRequest
	if !commonhttp.DecodeJSON(w, r, &req) {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": claims.UserID,
			"action":  "profile_update_invalid_json",
		}).Warn("profile update failed: invalid json")
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), userdomain.ID(claims.UserID), service.UpdateInput{
		Email: req.Email,
		Phone: req.Phone,
		DOB:   req.DOB,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, dto.UpdateProfileResponse{
		Message: updateSuccessMessage,
		User:    mapper.UserToDTO(user),
	})
}
