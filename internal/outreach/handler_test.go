package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salonassist/internal/clients"
)

func newTestRouter(t *testing.T, repo *memRepo, roster *stubRoster) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(newTestService(t, roster, repo), nil).RegisterRoutes(r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GenerateAndList(t *testing.T) {
	repo := &memRepo{}
	roster := &stubRoster{clients: []clients.Client{{ID: "c1", Name: "Anna", LastVisit: daysAgo(31)}}}
	h := newTestRouter(t, repo, roster)

	rec := do(h, http.MethodPost, "/suggestions/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"generated":2,"message":"2 neue Vorschläge generiert"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/suggestions?type=win_back&status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, TypeWinBack, list[0].Type)
}

func TestHandler_ListRejectsUnknownFilter(t *testing.T) {
	h := newTestRouter(t, &memRepo{}, &stubRoster{})
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/suggestions?type=spam", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/suggestions?status=archived", "").Code)
}

func TestHandler_SendAndDismiss(t *testing.T) {
	repo := &memRepo{items: []Suggestion{
		{ID: 1, ClientID: "c1", Type: TypeWinBack, Status: StatusPending},
		{ID: 2, ClientID: "c1", Type: TypePromotion, Status: StatusPending},
	}}
	h := newTestRouter(t, repo, &stubRoster{})

	rec := do(h, http.MethodPost, "/suggestions/1/send", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"E-Mail als gesendet markiert"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/suggestions/1/dismiss", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodPost, "/suggestions/2/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Vorschlag verworfen"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/suggestions/9/send", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Suggestion not found"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/suggestions/abc/send", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetSuggestion(t *testing.T) {
	repo := &memRepo{items: []Suggestion{{ID: 5, ClientID: "c1", ClientName: "Anna", Type: TypeWinBack, Status: StatusPending}}}
	h := newTestRouter(t, repo, &stubRoster{})

	rec := do(h, http.MethodGet, "/suggestions/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sg Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sg))
	assert.Equal(t, "Anna", sg.ClientName)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/suggestions/6", "").Code)
}

func TestHandler_Settings(t *testing.T) {
	h := newTestRouter(t, &memRepo{}, &stubRoster{})

	rec := do(h, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"winBackThresholdDays":30,"reminderDaysBefore":2}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/settings", `{"winBackThresholdDays":45,"reminderDaysBefore":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"winBackThresholdDays":45,"reminderDaysBefore":2}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/settings", `{"winBackThresholdDays":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_TemplatesAndStats(t *testing.T) {
	h := newTestRouter(t, &memRepo{}, &stubRoster{})

	rec := do(h, http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tpls []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpls))
	require.NotEmpty(t, tpls)
	assert.Contains(t, tpls[0], "subjectTemplate")
	assert.Contains(t, tpls[0], "bodyTemplate")

	rec = do(h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pending":0,"sentThisWeek":0,"sentThisMonth":0,"responseRate":0,
		"byType":{"winBack":0,"appointmentReminder":0,"productRecommendation":0,"promotion":0}}`, rec.Body.String())
}

type failingBackend struct{ Backend }

func (failingBackend) Stats(context.Context) (Stats, error) { return Stats{}, errors.New("boom") }

func TestHandler_InternalErrorsAreHidden(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(failingBackend{}, nil).RegisterRoutes(r)
	rec := do(r, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
