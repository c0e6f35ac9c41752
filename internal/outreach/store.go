package outreach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx pool for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store persists email suggestions.
type Store struct {
	db DB
}

// NewStore creates a suggestion store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const suggestionColumns = `es.id, es.client_id, c.name, es.suggestion_type, es.reason, es.email_subject,
	es.personalized_content, es.status, es.created_at, es.sent_at, es.dismissed_at`

// List returns suggestions with their client's name, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Suggestion, error) {
	query := `SELECT ` + suggestionColumns + `
		FROM email_suggestions es
		JOIN clients c ON c.id = es.client_id
		WHERE ($1 = '' OR es.suggestion_type = $1)
		  AND ($2 = '' OR es.status = $2)
		ORDER BY es.created_at DESC, es.id DESC`
	rows, err := s.db.Query(ctx, query, string(f.Type), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("outreach: list: %w", err)
	}
	defer rows.Close()

	out := []Suggestion{}
	for rows.Next() {
		var sg Suggestion
		var typ, status string
		if err := rows.Scan(&sg.ID, &sg.ClientID, &sg.ClientName, &typ, &sg.Reason, &sg.Subject,
			&sg.Content, &status, &sg.CreatedAt, &sg.SentAt, &sg.DismissedAt); err != nil {
			return nil, fmt.Errorf("outreach: scan suggestion: %w", err)
		}
		sg.Type, sg.Status = Type(typ), Status(status)
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outreach: list: %w", err)
	}
	return out, nil
}

// Get returns one suggestion with the client's interest and last visit.
func (s *Store) Get(ctx context.Context, id int64) (*Suggestion, error) {
	var sg Suggestion
	var typ, status string
	err := s.db.QueryRow(ctx, `SELECT `+suggestionColumns+`, c.primary_interest, c.last_visit
		FROM email_suggestions es
		JOIN clients c ON c.id = es.client_id
		WHERE es.id = $1`, id).Scan(&sg.ID, &sg.ClientID, &sg.ClientName, &typ, &sg.Reason, &sg.Subject,
		&sg.Content, &status, &sg.CreatedAt, &sg.SentAt, &sg.DismissedAt, &sg.ClientInterest, &sg.ClientLastVisit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("outreach: get: %w", err)
	}
	sg.Type, sg.Status = Type(typ), Status(status)
	return &sg, nil
}

// Pending returns every pending suggestion. Client names are not joined.
func (s *Store) Pending(ctx context.Context) ([]Suggestion, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, client_id, suggestion_type, reason
		FROM email_suggestions
		WHERE status = 'pending'`)
	if err != nil {
		return nil, fmt.Errorf("outreach: pending: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		var typ string
		if err := rows.Scan(&sg.ID, &sg.ClientID, &typ, &sg.Reason); err != nil {
			return nil, fmt.Errorf("outreach: scan pending: %w", err)
		}
		sg.Type, sg.Status = Type(typ), StatusPending
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outreach: pending: %w", err)
	}
	return out, nil
}

// InsertBatch stores all drafts as pending suggestions in one transaction.
func (s *Store) InsertBatch(ctx context.Context, drafts []Draft) (int, error) {
	if len(drafts) == 0 {
		return 0, nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("outreach: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range drafts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO email_suggestions (client_id, suggestion_type, reason, email_subject, personalized_content, status)
			VALUES ($1, $2, $3, $4, $5, 'pending')`,
			d.ClientID, string(d.Type), d.Reason, d.Subject, d.Content); err != nil {
			return 0, fmt.Errorf("outreach: insert suggestion for %s: %w", d.ClientID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("outreach: commit: %w", err)
	}
	return len(drafts), nil
}

// MarkSent moves a pending suggestion to sent and stamps sent_at.
func (s *Store) MarkSent(ctx context.Context, id int64) error {
	return s.transition(ctx, id, `UPDATE email_suggestions SET status = 'sent', sent_at = now()
		WHERE id = $1 AND status = 'pending'`)
}

// Dismiss moves a pending suggestion to dismissed.
func (s *Store) Dismiss(ctx context.Context, id int64) error {
	return s.transition(ctx, id, `UPDATE email_suggestions SET status = 'dismissed', dismissed_at = now()
		WHERE id = $1 AND status = 'pending'`)
}

func (s *Store) transition(ctx context.Context, id int64, update string) error {
	tag, err := s.db.Exec(ctx, update, id)
	if err != nil {
		return fmt.Errorf("outreach: transition %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRow(ctx, `SELECT status FROM email_suggestions WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("outreach: lookup %d: %w", id, err)
	}
	return fmt.Errorf("%w: %s", ErrConflict, current)
}

// Stats aggregates suggestion counts. Weeks start on Monday.
func (s *Store) Stats(ctx context.Context, now time.Time) (Stats, error) {
	var st Stats
	var totalSent int
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'sent' AND sent_at >= date_trunc('week', $1::timestamptz)),
			COUNT(*) FILTER (WHERE status = 'sent' AND sent_at >= date_trunc('month', $1::timestamptz)),
			COUNT(*) FILTER (WHERE status = 'sent')
		FROM email_suggestions`, now).Scan(&st.Pending, &st.SentThisWeek, &st.SentThisMonth, &totalSent)
	if err != nil {
		return Stats{}, fmt.Errorf("outreach: stats: %w", err)
	}
	st.ResponseRate = estimateResponseRate(totalSent)

	rows, err := s.db.Query(ctx, `
		SELECT suggestion_type, COUNT(*)
		FROM email_suggestions
		WHERE status = 'pending'
		GROUP BY suggestion_type`)
	if err != nil {
		return Stats{}, fmt.Errorf("outreach: stats by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return Stats{}, fmt.Errorf("outreach: scan stats: %w", err)
		}
		switch Type(typ) {
		case TypeWinBack:
			st.ByType.WinBack = n
		case TypeAppointmentReminder:
			st.ByType.AppointmentReminder = n
		case TypeProductRecommendation:
			st.ByType.ProductRecommendation = n
		case TypePromotion:
			st.ByType.Promotion = n
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("outreach: stats by type: %w", err)
	}
	return st, nil
}
