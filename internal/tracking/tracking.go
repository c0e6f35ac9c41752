// Package tracking counts how recommendations are received.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/salonassist/internal/catalog"
)

// Event is one of shown, accepted or dismissed.
type Event string

const (
	EventShown     Event = "shown"
	EventAccepted  Event = "accepted"
	EventDismissed Event = "dismissed"
)

// ErrUnknownEvent is returned for an event outside the three known ones.
var ErrUnknownEvent = errors.New("tracking: unknown event")

// ParseEvent validates an event name from the URL.
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventShown, EventAccepted, EventDismissed:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}

// Counter holds the running totals for one item name.
type Counter struct {
	Shown     int              `json:"shown"`
	Accepted  int              `json:"accepted"`
	Dismissed int              `json:"dismissed"`
	Type      catalog.ItemKind `json:"type"`
}

// AcceptanceRate is accepted/shown as a whole percentage.
func (c Counter) AcceptanceRate() int {
	if c.Shown == 0 {
		return 0
	}
	return roundPercent(float64(c.Accepted) / float64(c.Shown))
}

func roundPercent(f float64) int {
	return int(math.Round(f * 100))
}

// DB abstracts the pgx pool for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store keeps one counter row per item name.
type Store struct {
	db DB
}

// NewStore creates a tracking store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Record increments the counter for event, creating the row on first use.
// The item type is fixed by the first event recorded for a name.
func (s *Store) Record(ctx context.Context, itemName string, kind catalog.ItemKind, event Event) error {
	var shown, accepted, dismissed int
	switch event {
	case EventShown:
		shown = 1
	case EventAccepted:
		accepted = 1
	case EventDismissed:
		dismissed = 1
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO recommendation_tracking (item_name, item_type, shown, accepted, dismissed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_name) DO UPDATE SET
			shown = recommendation_tracking.shown + EXCLUDED.shown,
			accepted = recommendation_tracking.accepted + EXCLUDED.accepted,
			dismissed = recommendation_tracking.dismissed + EXCLUDED.dismissed,
			updated_at = NOW()`,
		itemName, string(kind), shown, accepted, dismissed)
	if err != nil {
		return fmt.Errorf("tracking: record %s: %w", event, err)
	}
	return nil
}

// All returns every counter keyed by item name.
func (s *Store) All(ctx context.Context) (map[string]Counter, error) {
	rows, err := s.db.Query(ctx, `SELECT item_name, item_type, shown, accepted, dismissed FROM recommendation_tracking`)
	if err != nil {
		return nil, fmt.Errorf("tracking: list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Counter)
	for rows.Next() {
		var (
			name, kind string
			c          Counter
		)
		if err := rows.Scan(&name, &kind, &c.Shown, &c.Accepted, &c.Dismissed); err != nil {
			return nil, fmt.Errorf("tracking: scan: %w", err)
		}
		c.Type = catalog.ItemKind(kind)
		out[name] = c
	}
	return out, rows.Err()
}
