package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/mapper"
)

type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type Handler struct {
	auth         Authenticator
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

// NewHandler serves /api/auth/register and /api/auth/login. A non-positive
// timeout falls back to the default request timeout.
func NewHandler(auth Authenticator, log *logger.Logger, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	h := &Handler{
		auth:         auth,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}

	post := func(fn http.HandlerFunc) http.HandlerFunc {
		return commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(timeout)(fn))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", post(h.register))
	mux.HandleFunc("/api/auth/login", post(h.login))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !commonhttp.DecodeJSON(w, r, &req) {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warn("register failed: invalid json")
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		DOB:      req.DOB,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  mapper.UserToDTO(result.User),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !commonhttp.DecodeJSON(w, r, &req) {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warn("login failed: invalid json")
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  mapper.UserToDTO(result.User),
	})
}
