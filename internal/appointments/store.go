package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// Store persists appointments, their line items and dismissed recommendations.
type Store struct {
	db    DB
	newID func() string
}

// NewStore creates an appointment store.
func NewStore(db DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

const appointmentColumns = `id, COALESCE(client_id, ''), client_name, COALESCE(stylist_id, ''), COALESCE(stylist_name, ''),
	to_char(appt_date, 'YYYY-MM-DD'), appt_time, status, notes, created_at`

// List returns all appointments, newest date and time first.
func (s *Store) List(ctx context.Context) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY appt_date DESC, appt_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	var out []Appointment
	index := make(map[string]int)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[a.ID] = len(out)
		out = append(out, *a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	if len(out) == 0 {
		return []Appointment{}, nil
	}

	services, err := s.lineItems(ctx, `SELECT appointment_id, service_name FROM appointment_services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	products, err := s.lineItems(ctx, `SELECT appointment_id, product_name FROM appointment_products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for id, i := range index {
		if v := services[id]; v != nil {
			out[i].Services = v
		}
		if v := products[id]; v != nil {
			out[i].Products = v
		}
	}
	return out, nil
}

// Get loads one appointment with its services and products.
func (s *Store) Get(ctx context.Context, id string) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}
	if a.Services, err = s.names(ctx, `SELECT service_name FROM appointment_services WHERE appointment_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	if a.Products, err = s.names(ctx, `SELECT product_name FROM appointment_products WHERE appointment_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an appointment and its line items in one transaction.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	status := StatusScheduled
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	a := &Appointment{
		ID:          s.newID(),
		ClientID:    in.ClientID,
		ClientName:  in.ClientName,
		StylistID:   in.StylistID,
		StylistName: in.StylistName,
		Date:        in.Date,
		Time:        in.Time,
		Status:      status,
		Notes:       in.Notes,
		Services:    dedupe(in.Services),
		Products:    dedupe(in.Products),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (id, client_id, client_name, stylist_id, stylist_name, appt_date, appt_time, status, notes)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6::date, $7, $8, $9)
		RETURNING created_at`,
		a.ID, a.ClientID, a.ClientName, a.StylistID, a.StylistName, a.Date, a.Time, string(a.Status), a.Notes,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	for _, name := range a.Services {
		if _, err := tx.Exec(ctx, `INSERT INTO appointment_services (appointment_id, service_name) VALUES ($1, $2)`, a.ID, name); err != nil {
			return nil, fmt.Errorf("appointments: insert service: %w", err)
		}
	}
	for _, name := range a.Products {
		if _, err := tx.Exec(ctx, `INSERT INTO appointment_products (appointment_id, product_name) VALUES ($1, $2)`, a.ID, name); err != nil {
			return nil, fmt.Errorf("appointments: insert product: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit: %w", err)
	}
	return a, nil
}

// Update changes status and/or notes.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Appointment, error) {
	var status *string
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		v := string(st)
		status = &v
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE appointments
		SET status = COALESCE($1, status), notes = COALESCE($2, notes)
		WHERE id = $3`, status, in.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("appointments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// AddService appends a service unless it is already booked.
func (s *Store) AddService(ctx context.Context, id, name string) (*Appointment, error) {
	return s.addItem(ctx, id, `
		INSERT INTO appointment_services (appointment_id, service_name) VALUES ($1, $2)
		ON CONFLICT (appointment_id, service_name) DO NOTHING`, name)
}

// AddProduct appends a product unless it is already booked.
func (s *Store) AddProduct(ctx context.Context, id, name string) (*Appointment, error) {
	return s.addItem(ctx, id, `
		INSERT INTO appointment_products (appointment_id, product_name) VALUES ($1, $2)
		ON CONFLICT (appointment_id, product_name) DO NOTHING`, name)
}

func (s *Store) addItem(ctx context.Context, id, insert, name string) (*Appointment, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, insert, id, name); err != nil {
		return nil, fmt.Errorf("appointments: add item: %w", err)
	}
	return s.Get(ctx, id)
}

// Dismiss records a dismissed recommendation. Repeating it is a no-op.
func (s *Store) Dismiss(ctx context.Context, id, itemName string, kind catalog.ItemKind) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO dismissed_recommendations (appointment_id, item_name, item_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (appointment_id, item_name, item_type) DO NOTHING`, id, itemName, string(kind))
	if err != nil {
		return fmt.Errorf("appointments: dismiss: %w", err)
	}
	return nil
}

// Dismissed returns the dismissed recommendation names for an appointment.
func (s *Store) Dismissed(ctx context.Context, id string) (Dismissed, error) {
	out := Dismissed{Services: []string{}, Products: []string{}}
	rows, err := s.db.Query(ctx, `
		SELECT item_name, item_type FROM dismissed_recommendations
		WHERE appointment_id = $1
		ORDER BY dismissed_at, item_name`, id)
	if err != nil {
		return out, fmt.Errorf("appointments: dismissed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return out, fmt.Errorf("appointments: scan dismissed: %w", err)
		}
		if catalog.ItemKind(kind) == catalog.KindService {
			out.Services = append(out.Services, name)
		} else {
			out.Products = append(out.Products, name)
		}
	}
	return out, rows.Err()
}

func (s *Store) ensureExists(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("appointments: check exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *Store) names(ctx context.Context, query, id string) ([]string, error) {
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("appointments: line items: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("appointments: scan line item: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *Store) lineItems(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: line items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("appointments: scan line item: %w", err)
		}
		out[id] = append(out[id], name)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a      Appointment
		status string
		date   *string
	)
	err := row.Scan(&a.ID, &a.ClientID, &a.ClientName, &a.StylistID, &a.StylistName,
		&date, &a.Time, &status, &a.Notes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: scan: %w", err)
	}
	if date != nil {
		a.Date = *date
	}
	a.Status = Status(status)
	a.Services = []string{}
	a.Products = []string{}
	return &a, nil
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

