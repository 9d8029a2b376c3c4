package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	"github.com/AlibekovAA/user-profile/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes the JSON envelope for err. Domain errors keep their
// status and message; anything else becomes an opaque 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	h.log.WithFields(ctx, logger.Fields{
		"action": "unhandled_error",
		"path":   r.URL.Path,
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(httpmetrics.NormalizePath(r.URL.Path), strconv.Itoa(http.StatusInternalServerError)).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternalError, "internal server error", nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)
	status := err.HTTPStatus()

	fields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if err.Category() == commonerrors.CategoryInternal {
		h.log.WithFields(ctx, fields).Errorf("domain error: %s", err.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, fields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(string(err.Category()), err.Code()).Inc()
	metrics.HTTPErrorsTotal.WithLabelValues(httpmetrics.NormalizePath(r.URL.Path), strconv.Itoa(status)).Inc()

	var details map[string]any
	if ve, ok := commonerrors.AsValidationError(err); ok && len(ve.Fields) > 0 {
		details = map[string]any{"fields": ve.Fields}
	}

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), details, traceID)
}
