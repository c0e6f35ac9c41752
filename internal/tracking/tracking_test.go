package tracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salonassist/internal/catalog"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_RecordUpsertsIncrement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO recommendation_tracking .* ON CONFLICT \(item_name\) DO UPDATE`).
		WithArgs("Blow Dry", "service", 0, 1, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Record(context.Background(), "Blow Dry", catalog.KindService, EventAccepted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordUnknownEvent(t *testing.T) {
	store, _ := newMockStore(t)
	err := store.Record(context.Background(), "Blow Dry", catalog.KindService, Event("clicked"))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestStore_All(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM recommendation_tracking`).
		WillReturnRows(pgxmock.NewRows([]string{"item_name", "item_type", "shown", "accepted", "dismissed"}).
			AddRow("Blow Dry", "service", 10, 3, 2).
			AddRow("Shampoo", "product", 4, 0, 1))

	counters, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counter{Shown: 10, Accepted: 3, Dismissed: 2, Type: catalog.KindService}, counters["Blow Dry"])
	assert.Equal(t, 30, counters["Blow Dry"].AcceptanceRate())
	assert.Equal(t, 0, Counter{}.AcceptanceRate())
}

func TestHandler_Record(t *testing.T) {
	store, mock := newMockStore(t)
	r := chi.NewRouter()
	NewHandler(store, nil).RegisterRoutes(r)

	mock.ExpectExec(`INSERT INTO recommendation_tracking`).
		WithArgs("Shampoo", "product", 1, 0, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shown", strings.NewReader(`{"itemName":"Shampoo","type":"product"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shown", strings.NewReader(`{"itemName":"Shampoo"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clicked", strings.NewReader(`{"itemName":"Shampoo","type":"product"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
