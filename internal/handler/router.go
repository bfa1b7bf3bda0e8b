package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the full HTTP surface: API routes, health, metrics and
// the static front end under /static.
func NewRouter(h *ActivityHandler, log *zap.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(log))
	r.Use(Metrics)
	r.Use(CORS)

	r.Get("/", Root)
	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Post("/{name}/signup", h.Signup)
		r.Delete("/{name}/unregister", h.Unregister)
	})

	r.Handle("/static/*", staticFiles(staticDir))

	return r
}

// staticFiles serves dir under /static. http.FileServer answers any
// request for .../index.html with a redirect to ./, so those requests are
// rewritten to the directory, which serves the same file directly.
func staticFiles(dir string) http.Handler {
	fs := http.StripPrefix("/static", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/index.html") {
			r2 := r.Clone(r.Context())
			r2.URL.Path = strings.TrimSuffix(r.URL.Path, "index.html")
			r2.URL.RawPath = ""
			r = r2
		}
		fs.ServeHTTP(w, r)
	})
}
