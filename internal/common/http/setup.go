package http

import (
	"net/http"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
)

type BaseOptions struct {
	CORSAllowedOrigins    []string
	MaxRequestSize        int64
	ContentSecurityPolicy string
}

func BuildBaseHandler(log *logger.Logger, opts BaseOptions, handler http.Handler) http.Handler {
	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = constants.DefaultMaxRequestSize
	}

	securityHeaders := SecurityHeadersMiddleware(opts.ContentSecurityPolicy)
	corsMW := CORSMiddleware(opts.CORSAllowedOrigins)
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(opts.MaxRequestSize)

	return securityHeaders(corsMW(traceID(recovery(maxRequestSize(httpmetrics.Wrap(handler))))))
}
