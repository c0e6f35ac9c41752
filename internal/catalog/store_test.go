package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	serviceCols = []string{"id", "name", "category", "duration_minutes", "price", "active", "created_at", "updated_at"}
	productCols = []string{"id", "name", "category", "price", "use_case", "active", "created_at", "updated_at"}
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_ListServices(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM services ORDER BY category, name`).
		WillReturnRows(pgxmock.NewRows(serviceCols).
			AddRow(int64(1), "Haircut", "Hair", 45, 35.0, true, now, now).
			AddRow(int64(2), "Blow Dry", "Hair", 30, 25.0, false, now, now))

	services, err := store.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Haircut", services[0].Name)
	assert.Equal(t, 45, services[0].Duration)
	assert.False(t, services[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetServiceNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM services WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(serviceCols))

	_, err := store.GetService(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateServiceDefaultsActive(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO services`).
		WithArgs("Haircut", "Hair", 45, 35.0, true).
		WillReturnRows(pgxmock.NewRows(serviceCols).
			AddRow(int64(7), "Haircut", "Hair", 45, 35.0, true, now, now))

	svc, err := store.CreateService(context.Background(), ServiceInput{Name: "Haircut", Category: "Hair", Duration: 45, Price: 35})
	require.NoError(t, err)
	assert.Equal(t, int64(7), svc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateServiceDuplicateName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO services`).
		WithArgs("Haircut", "Hair", 45, 35.0, true).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	_, err := store.CreateService(context.Background(), ServiceInput{Name: "Haircut", Category: "Hair", Duration: 45, Price: 35})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestStore_SetProductActive(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE products SET active = \$1`).
		WithArgs(false, int64(3)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(3), "Argan Oil", "Hair Care", 18.5, "Dry hair", false, now, now))

	p, err := store.SetProductActive(context.Background(), 3, false)
	require.NoError(t, err)
	assert.False(t, p.Active)
	assert.Equal(t, "Dry hair", p.UseCase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteProductMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.DeleteProduct(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetStylist(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, specialties, active FROM stylists WHERE id = \$1`).
		WithArgs("st-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialties", "active"}).
			AddRow("st-1", "Mia", []string{"Color", "Cuts"}, true))

	st, err := store.GetStylist(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Color", "Cuts"}, st.Specialties)
}

func TestStore_Snapshot(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM services`).
		WillReturnRows(pgxmock.NewRows(serviceCols).
			AddRow(int64(1), "Haircut", "Hair", 45, 35.0, true, now, now).
			AddRow(int64(2), "Scalp Massage", "Wellness", 15, 12.0, false, now, now))
	mock.ExpectQuery(`FROM products`).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(1), "Shampoo", "Hair Care", 14.0, "", true, now, now))

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsServiceActive("Haircut"))
	assert.False(t, snap.IsServiceActive("Scalp Massage"))
	assert.False(t, snap.IsServiceActive("Unknown"))
	assert.True(t, snap.IsProductActive("Shampoo"))
	assert.Equal(t, 35.0, snap.ServicePrice("Haircut", 40))
	assert.Equal(t, 40.0, snap.ServicePrice("Unknown", 40))
	assert.Equal(t, 20.0, snap.ProductPrice("Unknown", 20))
}

func TestParseItemKind(t *testing.T) {
	k, err := ParseItemKind(" Service ")
	require.NoError(t, err)
	assert.Equal(t, KindService, k)

	_, err = ParseItemKind("voucher")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
