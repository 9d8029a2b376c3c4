package bootstrap

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/user-profile/internal/auth/http"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	profilehttp "github.com/AlibekovAA/user-profile/internal/profile/http"
)

// Routes returns the full HTTP surface wrapped in the common middleware chain.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(a.AuthService, a.Log, a.Config.RequestTimeout))
	mux.Handle("/api/user/profile", profilehttp.NewHandler(a.ProfileService, a.Tokens, a.Log, a.Config.RequestTimeout))
	mux.HandleFunc("/health", commonhttp.HealthHandler(a.Log, a.HealthCheck))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", commonhttp.NotFoundHandler)

	return commonhttp.BuildBaseHandler(a.Log, commonhttp.BaseOptions{
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
	}, mux)
}
