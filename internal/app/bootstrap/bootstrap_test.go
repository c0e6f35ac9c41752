package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salonassist/internal/api/router"
	appconfig "github.com/wolfman30/salonassist/internal/config"
	"github.com/wolfman30/salonassist/pkg/logging"
)

func TestBuildRedisClientEmptyAddr(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logging.New("error"), true))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, true))
}

func TestBuildRedisClientPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr()}

	client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true)
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestBuildRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &appconfig.Config{RedisAddr: addr}
	assert.Nil(t, BuildRedisClient(context.Background(), cfg, logging.New("error"), true))
}

func TestOpenDatabaseRequiresURL(t *testing.T) {
	_, err := OpenDatabase(context.Background(), &appconfig.Config{DatabaseURL: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestDatabaseCloseNil(t *testing.T) {
	var db *Database
	assert.NotPanics(t, db.Close)
}

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		CORSAllowedOrigins:  []string{"*"},
		RateLimitRPS:        100,
		RateLimitBurst:      100,
		MetricsEnabled:      true,
		DefaultWinBackDays:  45,
		DefaultReminderDays: 3,
		SeasonalSampleSize:  5,
		SalonName:           "Salon Test",
	}
}

func buildTestRouter(t *testing.T, cfg *appconfig.Config, withRedis bool) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	pg, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	deps := Deps{
		PG:       pg,
		SQL:      sqlDB,
		Registry: prometheus.NewRegistry(),
		Logger:   logging.New("error"),
	}
	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		deps.Redis = BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, deps.Logger, false)
		t.Cleanup(func() { _ = deps.Redis.Close() })
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rc, err := BuildRouterConfig(ctx, cfg, deps)
	require.NoError(t, err)
	return router.New(rc), mr
}

func TestBuildRouterConfigRequiresDeps(t *testing.T) {
	_, err := BuildRouterConfig(context.Background(), nil, Deps{})
	assert.Error(t, err)

	_, err = BuildRouterConfig(context.Background(), testConfig(), Deps{})
	assert.Error(t, err)
}

func TestBuildRouterConfigServesHealthAndMetrics(t *testing.T) {
	h, _ := buildTestRouter(t, testConfig(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "salonassist_http_requests_total"))
}

func TestBuildRouterConfigWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	h, _ := buildTestRouter(t, cfg, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildRouterConfigOutreachSettingsDefaults(t *testing.T) {
	h, _ := buildTestRouter(t, testConfig(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outreach/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 45, body["winBackThresholdDays"])
	assert.Equal(t, 3, body["reminderDaysBefore"])
}

func TestBuildRouterConfigOutreachSettingsInRedis(t *testing.T) {
	h, mr := buildTestRouter(t, testConfig(), true)

	req := httptest.NewRequest(http.MethodPut, "/api/outreach/settings", strings.NewReader(`{"winBackThresholdDays":60,"reminderDaysBefore":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, mr.Exists("salonassist:outreach:settings"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outreach/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"winBackThresholdDays":60`)
}

func TestBuildRouterConfigTemplates(t *testing.T) {
	h, _ := buildTestRouter(t, testConfig(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outreach/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "win_back")
}
