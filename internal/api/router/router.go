package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/salonassist/internal/http/middleware"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/internal/observability/metrics"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Routes is implemented by every domain handler.
type Routes interface {
	RegisterRoutes(r chi.Router)
}

// Config holds router configuration. Nil handlers are skipped.
type Config struct {
	Logger *logging.Logger

	Catalog         Routes
	Clients         Routes
	Appointments    Routes
	Recommendations Routes
	Rules           Routes
	Tracking        Routes
	Analytics       Routes
	Outreach        Routes

	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
	HTTPMetrics        *metrics.HTTPMetrics
	MetricsHandler     http.Handler

	// Now stamps /health responses; defaults to time.Now.
	Now func() time.Time
}

var endpoints = map[string]string{
	"health":       "/health",
	"services":     "/api/services",
	"products":     "/api/products",
	"stylists":     "/api/stylists",
	"clients":      "/api/clients",
	"appointments": "/api/appointments",
	"rules":        "/api/rules",
	"tracking":     "/api/tracking",
	"analytics":    "/api/analytics",
	"outreach":     "/api/outreach",
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimiter != nil {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(httpmiddleware.Metrics(cfg.HTTPMetrics))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"name":      "SalonAssist API",
			"endpoints": endpoints,
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": now().UTC().Format(time.RFC3339),
		})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.Catalog != nil {
			cfg.Catalog.RegisterRoutes(api)
		}
		mount(api, "/clients", cfg.Clients)
		mount(api, "/appointments", cfg.Appointments, cfg.Recommendations)
		mount(api, "/rules", cfg.Rules)
		mount(api, "/tracking", cfg.Tracking)
		mount(api, "/analytics", cfg.Analytics)
		mount(api, "/outreach", cfg.Outreach)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// mount registers several handlers under one prefix, skipping nil ones.
func mount(r chi.Router, prefix string, handlers ...Routes) {
	var live []Routes
	for _, h := range handlers {
		if h != nil {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return
	}
	r.Route(prefix, func(sub chi.Router) {
		for _, h := range live {
			h.RegisterRoutes(sub)
		}
	})
}
