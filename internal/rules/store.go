package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/salonassist/internal/catalog"
)

// DB abstracts the pgx pool for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store persists service and product rules. Both kinds share one table.
type Store struct {
	db DB
}

// NewStore creates a rule store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// List returns the rules of one kind ordered by trigger then id.
func (s *Store) List(ctx context.Context, kind catalog.ItemKind) ([]Rule, error) {
	return s.list(ctx, kind, false)
}

// ListActive returns only active rules, in the same order as List.
func (s *Store) ListActive(ctx context.Context, kind catalog.ItemKind) ([]Rule, error) {
	return s.list(ctx, kind, true)
}

// All returns both rule kinds.
func (s *Store) All(ctx context.Context) (Set, error) {
	services, err := s.List(ctx, catalog.KindService)
	if err != nil {
		return Set{}, err
	}
	products, err := s.List(ctx, catalog.KindProduct)
	if err != nil {
		return Set{}, err
	}
	return Set{ServiceRules: services, ProductRules: products}, nil
}

func (s *Store) list(ctx context.Context, kind catalog.ItemKind, activeOnly bool) ([]Rule, error) {
	query := `SELECT id, trigger_service, reason, active FROM rules WHERE kind = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY trigger_service, id`

	rows, err := s.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("rules: list: %w", err)
	}
	out := []Rule{}
	index := make(map[int64]int)
	for rows.Next() {
		r := Rule{Kind: kind, Suggestions: []string{}}
		if err := rows.Scan(&r.ID, &r.Trigger, &r.Reason, &r.Active); err != nil {
			rows.Close()
			return nil, fmt.Errorf("rules: scan: %w", err)
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rules: list: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	srows, err := s.db.Query(ctx, `
		SELECT rs.rule_id, rs.item_name
		FROM rule_suggestions rs
		JOIN rules r ON r.id = rs.rule_id
		WHERE r.kind = $1
		ORDER BY rs.rule_id, rs.position`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("rules: list suggestions: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var (
			ruleID int64
			name   string
		)
		if err := srows.Scan(&ruleID, &name); err != nil {
			return nil, fmt.Errorf("rules: scan suggestion: %w", err)
		}
		if i, ok := index[ruleID]; ok {
			out[i].Suggestions = append(out[i].Suggestions, name)
		}
	}
	return out, srows.Err()
}

// Get loads one rule of the given kind.
func (s *Store) Get(ctx context.Context, kind catalog.ItemKind, id int64) (*Rule, error) {
	r := Rule{Kind: kind, Suggestions: []string{}}
	err := s.db.QueryRow(ctx, `
		SELECT id, trigger_service, reason, active FROM rules
		WHERE id = $1 AND kind = $2`, id, string(kind)).
		Scan(&r.ID, &r.Trigger, &r.Reason, &r.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rules: get: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT item_name FROM rule_suggestions WHERE rule_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("rules: get suggestions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("rules: scan suggestion: %w", err)
		}
		r.Suggestions = append(r.Suggestions, name)
	}
	return &r, rows.Err()
}

// Create inserts a rule with its suggestions.
func (s *Store) Create(ctx context.Context, kind catalog.ItemKind, in Input) (*Rule, error) {
	r := Rule{
		Kind:        kind,
		Trigger:     in.Trigger,
		Suggestions: normalizeSuggestions(in.Suggestions),
		Reason:      in.Reason,
		Active:      in.Active == nil || *in.Active,
	}
	if len(r.Suggestions) == 0 {
		return nil, ErrNoSuggestions
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("rules: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO rules (kind, trigger_service, reason, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, string(kind), r.Trigger, r.Reason, r.Active).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("rules: insert: %w", err)
	}
	if err := insertSuggestions(ctx, tx, r.ID, r.Suggestions); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("rules: commit: %w", err)
	}
	return &r, nil
}

// Update replaces a rule's trigger, reason, active flag and suggestions.
func (s *Store) Update(ctx context.Context, kind catalog.ItemKind, id int64, in Input) (*Rule, error) {
	r := Rule{
		ID:          id,
		Kind:        kind,
		Trigger:     in.Trigger,
		Suggestions: normalizeSuggestions(in.Suggestions),
		Reason:      in.Reason,
		Active:      in.Active == nil || *in.Active,
	}
	if len(r.Suggestions) == 0 {
		return nil, ErrNoSuggestions
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("rules: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rules SET trigger_service = $1, reason = $2, active = $3
		WHERE id = $4 AND kind = $5`, r.Trigger, r.Reason, r.Active, id, string(kind))
	if err != nil {
		return nil, fmt.Errorf("rules: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM rule_suggestions WHERE rule_id = $1`, id); err != nil {
		return nil, fmt.Errorf("rules: clear suggestions: %w", err)
	}
	if err := insertSuggestions(ctx, tx, id, r.Suggestions); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("rules: commit: %w", err)
	}
	return &r, nil
}

// SetActive toggles a rule.
func (s *Store) SetActive(ctx context.Context, kind catalog.ItemKind, id int64, active bool) (*Rule, error) {
	tag, err := s.db.Exec(ctx, `UPDATE rules SET active = $1 WHERE id = $2 AND kind = $3`, active, id, string(kind))
	if err != nil {
		return nil, fmt.Errorf("rules: toggle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, kind, id)
}

// Delete removes a rule; its suggestions go with it via ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, kind catalog.ItemKind, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM rules WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("rules: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertSuggestions(ctx context.Context, tx pgx.Tx, ruleID int64, names []string) error {
	for i, name := range names {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rule_suggestions (rule_id, position, item_name) VALUES ($1, $2, $3)`,
			ruleID, i, name); err != nil {
			return fmt.Errorf("rules: insert suggestion: %w", err)
		}
	}
	return nil
}
