package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router bundles the handlers served by NewRouter
type Router struct {
	Middleware *Middleware
	Practice   *PracticeHandler
	Lists      *ListHandler
	Settings   *SettingsHandler
	Backup     *BackupHandler
	Health     *HealthHandler
	Metrics    prometheus.Gatherer
	Logger     *zap.Logger
}

// NewRouter registers every route and wraps the mux with panic recovery
// and request logging
func NewRouter(rt Router) http.Handler {
	mw := rt.Middleware
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /healthz", rt.Health.Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(rt.Metrics, promhttp.HandlerOpts{}))
	}

	// Word list routes
	mux.HandleFunc("GET /api/lists", mw.RequireUser(rt.Lists.Names))
	mux.HandleFunc("GET /api/lists/{name}", mw.RequireUser(rt.Lists.Get))
	mux.HandleFunc("PUT /api/lists/{name}", mw.RequireUser(rt.Lists.Save))
	mux.HandleFunc("DELETE /api/lists/{name}", mw.RequireUser(rt.Lists.Delete))
	mux.HandleFunc("POST /api/lists/{name}/import", mw.RequireUser(mw.RateLimit(rt.Lists.Import)))

	// Settings routes
	mux.HandleFunc("GET /api/settings", mw.RequireUser(rt.Settings.Get))
	mux.HandleFunc("PUT /api/settings", mw.RequireUser(rt.Settings.Update))

	// Practice routes
	mux.HandleFunc("POST /api/practice/start/{name}", mw.RequireUser(mw.RateLimit(rt.Practice.Start)))
	mux.HandleFunc("GET /api/practice/history", mw.RequireUser(rt.Practice.History))
	mux.HandleFunc("GET /api/practice/{id}", mw.RequireUser(rt.Practice.State))
	mux.HandleFunc("DELETE /api/practice/{id}", mw.RequireUser(rt.Practice.End))
	// answer, next, retry and restart share one pattern so it cannot
	// overlap with start/{name}
	mux.HandleFunc("POST /api/practice/{id}/{action}", mw.RequireUser(rt.Practice.Action(mw)))

	// Backup routes
	mux.HandleFunc("GET /api/backup", mw.RequireUser(rt.Backup.Export))
	mux.HandleFunc("POST /api/backup", mw.RequireUser(mw.RateLimit(rt.Backup.Import)))

	return Logging(rt.Logger, Recover(rt.Logger, mux))
}
