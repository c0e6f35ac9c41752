package analytics

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository reads visits for the report.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Visits returns live appointments followed by client history entries.
func (r *Repository) Visits(ctx context.Context) ([]Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(to_char(a.appt_date, 'YYYY-MM-DD'), ''), a.status,
		       COALESCE((SELECT array_agg(s.service_name ORDER BY s.id) FROM appointment_services s WHERE s.appointment_id = a.id), '{}'),
		       COALESCE((SELECT array_agg(p.product_name ORDER BY p.id) FROM appointment_products p WHERE p.appointment_id = a.id), '{}')
		FROM appointments a
		UNION ALL
		SELECT to_char(h.visit_date, 'YYYY-MM-DD'), h.status, h.services, h.products
		FROM client_history h`)
	if err != nil {
		return nil, fmt.Errorf("analytics: visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.Date, &v.Status, pq.Array(&v.Services), pq.Array(&v.Products)); err != nil {
			return nil, fmt.Errorf("analytics: scan visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
