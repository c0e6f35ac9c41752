package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/salonassist/internal/analytics"
	"github.com/wolfman30/salonassist/internal/api/router"
	"github.com/wolfman30/salonassist/internal/appointments"
	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/clients"
	appconfig "github.com/wolfman30/salonassist/internal/config"
	httpmiddleware "github.com/wolfman30/salonassist/internal/http/middleware"
	"github.com/wolfman30/salonassist/internal/observability/metrics"
	"github.com/wolfman30/salonassist/internal/outreach"
	"github.com/wolfman30/salonassist/internal/recommend"
	"github.com/wolfman30/salonassist/internal/rules"
	"github.com/wolfman30/salonassist/internal/tracking"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// PG is the pgx surface shared by the pgx-backed stores.
type PG interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Deps are the external resources the API needs. Redis and Registry are
// optional.
type Deps struct {
	PG       PG
	SQL      *sql.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Logger   *logging.Logger
}

// BuildRouterConfig wires stores, services and handlers into a router config.
// ctx bounds background work such as rate limiter sweeps.
func BuildRouterConfig(ctx context.Context, cfg *appconfig.Config, deps Deps) (*router.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if deps.PG == nil || deps.SQL == nil {
		return nil, fmt.Errorf("bootstrap: database handles are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	catalogStore := catalog.NewStore(deps.PG)
	clientRepo := clients.NewRepository(deps.SQL)
	apptStore := appointments.NewStore(deps.PG)
	ruleStore := rules.NewStore(deps.PG)
	trackingStore := tracking.NewStore(deps.PG)

	var (
		recMetrics      *metrics.RecommendationMetrics
		outreachMetrics *metrics.OutreachMetrics
		httpMetrics     *metrics.HTTPMetrics
		metricsHandler  http.Handler
	)
	if cfg.MetricsEnabled && deps.Registry != nil {
		recMetrics = metrics.NewRecommendationMetrics(deps.Registry)
		outreachMetrics = metrics.NewOutreachMetrics(deps.Registry)
		httpMetrics = metrics.NewHTTPMetrics(deps.Registry)
		metricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}

	recService := recommend.NewService(apptStore, ruleStore, catalogStore, recMetrics, logger.Component("recommend"))

	analyticsService := analytics.NewService(
		analytics.NewRepository(deps.SQL),
		trackingStore,
		catalogStore,
		analytics.Fallbacks{Service: cfg.ServicePriceFallback, Product: cfg.ProductPriceFallback},
	)

	renderer, err := outreach.NewRenderer(cfg.SalonName)
	if err != nil {
		return nil, err
	}
	defaults := outreach.Settings{
		WinBackThresholdDays: cfg.DefaultWinBackDays,
		ReminderDaysBefore:   cfg.DefaultReminderDays,
	}.Normalize(outreach.Settings{WinBackThresholdDays: 30, ReminderDaysBefore: 2})
	var settings outreach.SettingsRepository = outreach.NewMemorySettings(defaults)
	if deps.Redis != nil {
		settings = outreach.NewSettingsStore(deps.Redis, defaults)
	}
	generator := outreach.NewGenerator(renderer, nil, nil).WithSampleSize(cfg.SeasonalSampleSize)
	outreachService := outreach.NewService(
		clientRepo,
		outreach.NewStore(deps.PG),
		settings,
		generator,
		renderer,
		outreachMetrics,
		logger.Component("outreach"),
	)

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		limiter = httpmiddleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	return &router.Config{
		Logger:             logger.Component("http"),
		Catalog:            catalog.NewHandler(catalogStore, logger),
		Clients:            clients.NewHandler(clientRepo, logger),
		Appointments:       appointments.NewHandler(apptStore, logger),
		Recommendations:    recommend.NewHandler(recService, logger),
		Rules:              rules.NewHandler(ruleStore, logger),
		Tracking:           tracking.NewHandler(trackingStore, logger),
		Analytics:          analytics.NewHandler(analyticsService, logger),
		Outreach:           outreach.NewHandler(outreachService, logger),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		HTTPMetrics:        httpMetrics,
		MetricsHandler:     metricsHandler,
	}, nil
}
