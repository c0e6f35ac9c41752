package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository reads clients and their visit history.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a client repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const clientColumns = `id, name, primary_interest, preferences, issues, last_visit, total_visits, tags`

// List returns all clients ordered by name.
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	out := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Get loads one client.
func (r *Repository) Get(ctx context.Context, id string) (*Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// History returns the visits of one client, newest first.
func (r *Repository) History(ctx context.Context, clientID string) ([]HistoryEntry, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, clientID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("clients: check client: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, visit_date, visit_time, status, services, products
		FROM client_history
		WHERE client_id = $1
		ORDER BY visit_date DESC, visit_time DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("clients: history: %w", err)
	}
	return scanHistory(rows)
}

// AllHistory returns every history entry. Used by analytics and outreach.
func (r *Repository) AllHistory(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, visit_date, visit_time, status, services, products
		FROM client_history
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("clients: all history: %w", err)
	}
	return scanHistory(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*Client, error) {
	var (
		c         Client
		lastVisit sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Name, &c.PrimaryInterest, &c.Preferences, &c.Issues,
		&lastVisit, &c.TotalVisits, pq.Array(&c.Tags))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("clients: scan client: %w", err)
	}
	if lastVisit.Valid {
		t := lastVisit.Time
		c.LastVisit = &t
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

func scanHistory(rows *sql.Rows) ([]HistoryEntry, error) {
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Date, &e.Time, &e.Status,
			pq.Array(&e.Services), pq.Array(&e.Products)); err != nil {
			return nil, fmt.Errorf("clients: scan history: %w", err)
		}
		if e.Services == nil {
			e.Services = []string{}
		}
		if e.Products == nil {
			e.Products = []string{}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
