package appointments

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	store, mock := newMockStore(t)
	r := chi.NewRouter()
	NewHandler(store, nil).RegisterRoutes(r)
	return r, mock
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_CreateRequiresService(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodPost, "/", `{"client":"Anna","date":"2026-10-20","services":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "services needs at least 1 item(s)")
}

func TestHandler_CreateRejectsBadDate(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodPost, "/", `{"client":"Anna","date":"20.10.2026","services":["Haircut"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UpdateInvalidStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodPut, "/apt-9", `{"status":"Finished"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status")
}

func TestHandler_DismissInvalidType(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodPost, "/apt-9/dismiss", `{"itemName":"Hair Mask","itemType":"voucher"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Dismiss(t *testing.T) {
	router, mock := newTestRouter(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("apt-9").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`INSERT INTO dismissed_recommendations`).
		WithArgs("apt-9", "Hair Mask", "product").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := do(router, http.MethodPost, "/apt-9/dismiss", `{"itemName":"Hair Mask","itemType":"product"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_GetMissing(t *testing.T) {
	router, mock := newTestRouter(t)
	mock.ExpectQuery(`FROM appointments WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(apptCols))

	rec := do(router, http.MethodGet, "/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
