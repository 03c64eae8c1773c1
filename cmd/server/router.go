package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/wallet-wrapped/internal/api"
	apiMiddleware "github.com/phrazzld/wallet-wrapped/internal/api/middleware"
	"github.com/phrazzld/wallet-wrapped/internal/app"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates the application router with all routes and middleware.
func setupRouter(a *app.App) http.Handler {
	r := chi.NewRouter()

	metrics := apiMiddleware.NewHTTPMetrics(a.Metrics)

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(a.Logger))
	r.Use(metrics.Middleware)

	wrapped := api.NewWrappedHandler(a.Service, a.Runner, a.Tracker, a.Logger)
	r.Route("/api", wrapped.Routes)

	r.Get("/health", api.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{}))

	return r
}
