package clients

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientCols = []string{"id", "name", "primary_interest", "preferences", "issues", "last_visit", "total_visits", "tags"}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	visit := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM clients ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow("c1", "Anna", "Hair Color", "", "", visit, 12, "{VIP,Color}").
			AddRow("c2", "Ben", "Beard Care", "", "", nil, 0, nil))

	repo := NewRepository(db)
	clients, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.Equal(t, []string{"VIP", "Color"}, clients[0].Tags)
	require.NotNil(t, clients[0].LastVisit)
	assert.True(t, clients[0].LastVisit.Equal(visit))
	assert.Nil(t, clients[1].LastVisit)
	assert.Equal(t, []string{}, clients[1].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM clients WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(clientCols))

	_, err = NewRepository(db).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_HistoryUnknownClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = NewRepository(db).History(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`FROM client_history\s+WHERE client_id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "visit_date", "visit_time", "status", "services", "products"}).
			AddRow(int64(4), "c1", day, "10:00", "Completed", "{Haircut,\"Deep Conditioning\"}", "{}"))

	entries, err := NewRepository(db).History(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Haircut", "Deep Conditioning"}, entries[0].Services)
	assert.Equal(t, []string{}, entries[0].Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarize(t *testing.T) {
	entries := []HistoryEntry{
		{ClientID: "c1", Services: []string{"Haircut", "Beard Trim"}},
		{ClientID: "c1", Services: []string{"Beard Trim"}},
		{ClientID: "c2", Services: []string{"Manicure"}},
	}

	sums := Summarize(entries)
	assert.Equal(t, 2, sums["c1"].Visits)
	assert.Equal(t, 2, sums["c1"].ServiceCounts["Beard Trim"])
	assert.Equal(t, 1, sums["c2"].Visits)

	top, ok := sums["c1"].MostFrequentService()
	require.True(t, ok)
	assert.Equal(t, "Beard Trim", top)
}

func TestMostFrequentServiceTieIsLexicographic(t *testing.T) {
	sum := VisitSummary{ServiceCounts: map[string]int{"Manicure": 2, "Haircut": 2, "Facial Treatment": 1}}
	top, ok := sum.MostFrequentService()
	require.True(t, ok)
	assert.Equal(t, "Haircut", top)

	_, ok = VisitSummary{}.MostFrequentService()
	assert.False(t, ok)
}
