package analytics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/internal/tracking"
	"github.com/wolfman30/salonassist/pkg/logging"
)

type visitSource interface {
	Visits(ctx context.Context) ([]Visit, error)
}

type counterSource interface {
	All(ctx context.Context) (map[string]tracking.Counter, error)
}

type catalogSource interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Fallbacks price items missing from the catalog.
type Fallbacks struct {
	Service float64
	Product float64
}

// Service loads report inputs and computes the report.
type Service struct {
	visits    visitSource
	counters  counterSource
	catalog   catalogSource
	fallbacks Fallbacks
	now       func() time.Time
}

func NewService(visits visitSource, counters counterSource, cat catalogSource, fb Fallbacks) *Service {
	return &Service{visits: visits, counters: counters, catalog: cat, fallbacks: fb, now: time.Now}
}

func (s *Service) Report(ctx context.Context) (Report, error) {
	visits, err := s.visits.Visits(ctx)
	if err != nil {
		return Report{}, err
	}
	counters, err := s.counters.All(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("analytics: tracking: %w", err)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("analytics: catalog: %w", err)
	}
	prices := Prices{Catalog: snap, ServiceFallback: s.fallbacks.Service, ProductFallback: s.fallbacks.Product}
	return Compute(visits, counters, prices, s.now()), nil
}

// Handler serves GET /api/analytics.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context())
	if err != nil {
		h.logger.Error("analytics handler: report", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
