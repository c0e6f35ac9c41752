package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides CRUD over services, products and stylists.
type Store struct {
	db DB
}

// NewStore creates a catalog store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const serviceColumns = `id, name, category, duration_minutes, price, active, created_at, updated_at`

// ListServices returns every service ordered by category and name.
func (s *Store) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

// GetService loads one service.
func (s *Store) GetService(ctx context.Context, id int64) (*Service, error) {
	row := s.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	return scanService(row)
}

// CreateService inserts a service; name collisions return ErrDuplicateName.
func (s *Store) CreateService(ctx context.Context, in ServiceInput) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO services (name, category, duration_minutes, price, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+serviceColumns,
		in.Name, in.Category, in.Duration, in.Price, activeOrDefault(in.Active),
	)
	svc, err := scanService(row)
	if err != nil {
		return nil, mapWriteErr("create service", err)
	}
	return svc, nil
}

// UpdateService replaces the editable fields of a service.
func (s *Store) UpdateService(ctx context.Context, id int64, in ServiceInput) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE services
		SET name = $1, category = $2, duration_minutes = $3, price = $4, active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+serviceColumns,
		in.Name, in.Category, in.Duration, in.Price, activeOrDefault(in.Active), id,
	)
	svc, err := scanService(row)
	if err != nil {
		return nil, mapWriteErr("update service", err)
	}
	return svc, nil
}

// SetServiceActive toggles whether a service can be booked and recommended.
func (s *Store) SetServiceActive(ctx context.Context, id int64, active bool) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE services SET active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+serviceColumns, active, id)
	return scanService(row)
}

// DeleteService removes a service.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const productColumns = `id, name, category, price, use_case, active, created_at, updated_at`

// ListProducts returns every product ordered by category and name.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetProduct loads one product.
func (s *Store) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// CreateProduct inserts a product; name collisions return ErrDuplicateName.
func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO products (name, category, price, use_case, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		in.Name, in.Category, in.Price, in.UseCase, activeOrDefault(in.Active),
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapWriteErr("create product", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE products
		SET name = $1, category = $2, price = $3, use_case = $4, active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+productColumns,
		in.Name, in.Category, in.Price, in.UseCase, activeOrDefault(in.Active), id,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapWriteErr("update product", err)
	}
	return p, nil
}

// SetProductActive toggles whether a product can be sold and recommended.
func (s *Store) SetProductActive(ctx context.Context, id int64, active bool) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE products SET active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+productColumns, active, id)
	return scanProduct(row)
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStylists returns all stylists ordered by name.
func (s *Store) ListStylists(ctx context.Context) ([]Stylist, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, specialties, active FROM stylists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list stylists: %w", err)
	}
	defer rows.Close()

	var out []Stylist
	for rows.Next() {
		var st Stylist
		if err := rows.Scan(&st.ID, &st.Name, &st.Specialties, &st.Active); err != nil {
			return nil, fmt.Errorf("catalog: scan stylist: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetStylist loads one stylist.
func (s *Store) GetStylist(ctx context.Context, id string) (*Stylist, error) {
	var st Stylist
	err := s.db.QueryRow(ctx, `SELECT id, name, specialties, active FROM stylists WHERE id = $1`, id).
		Scan(&st.ID, &st.Name, &st.Specialties, &st.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get stylist: %w", err)
	}
	return &st, nil
}

// Snapshot loads the whole catalog for recommendation and analytics lookups.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(services, products), nil
}

func scanService(row pgx.Row) (*Service, error) {
	var svc Service
	err := row.Scan(&svc.ID, &svc.Name, &svc.Category, &svc.Duration, &svc.Price, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: scan service: %w", err)
	}
	return &svc, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.UseCase, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: scan product: %w", err)
	}
	return &p, nil
}

func mapWriteErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateName
	}
	return fmt.Errorf("catalog: %s: %w", op, err)
}
