package recommend

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/salonassist/internal/appointments"
	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/observability/metrics"
	"github.com/wolfman30/salonassist/internal/rules"
	"github.com/wolfman30/salonassist/pkg/logging"
)

var tracer = otel.Tracer("salonassist.internal.recommend")

// AppointmentReader loads the booking and its dismissed items.
type AppointmentReader interface {
	Get(ctx context.Context, id string) (*appointments.Appointment, error)
	Dismissed(ctx context.Context, id string) (appointments.Dismissed, error)
}

// RuleReader lists active rules per kind.
type RuleReader interface {
	ListActive(ctx context.Context, kind catalog.ItemKind) ([]rules.Rule, error)
}

// CatalogReader provides a catalog snapshot.
type CatalogReader interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Service gathers engine inputs from storage and runs Recommend.
type Service struct {
	appts   AppointmentReader
	rules   RuleReader
	catalog CatalogReader
	metrics *metrics.RecommendationMetrics
	logger  *logging.Logger
}

// NewService wires the recommendation service. m may be nil.
func NewService(appts AppointmentReader, rr RuleReader, cat CatalogReader, m *metrics.RecommendationMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{appts: appts, rules: rr, catalog: cat, metrics: m, logger: logger}
}

// ForAppointment ranks recommendations for one appointment.
func (s *Service) ForAppointment(ctx context.Context, appointmentID string) (Result, error) {
	ctx, span := tracer.Start(ctx, "recommend.for_appointment")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", appointmentID))
	start := time.Now()

	res, err := s.run(ctx, appointmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommendation failed")
		s.metrics.ObserveRun("error", 0, 0, time.Since(start).Seconds())
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int("recommend.services", len(res.ServiceRecommendations)),
		attribute.Int("recommend.products", len(res.ProductRecommendations)),
	)
	s.metrics.ObserveRun("ok", len(res.ServiceRecommendations), len(res.ProductRecommendations), time.Since(start).Seconds())
	s.logger.Debug("recommendations ranked",
		"appointment_id", appointmentID,
		"services", len(res.ServiceRecommendations),
		"products", len(res.ProductRecommendations),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, appointmentID string) (Result, error) {
	appt, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: load appointment: %w", err)
	}
	dismissed, err := s.appts.Dismissed(ctx, appointmentID)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: load dismissed: %w", err)
	}
	serviceRules, err := s.rules.ListActive(ctx, catalog.KindService)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: load service rules: %w", err)
	}
	productRules, err := s.rules.ListActive(ctx, catalog.KindProduct)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: load product rules: %w", err)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: load catalog: %w", err)
	}

	return Recommend(
		Booking{Services: appt.Services, Products: appt.Products},
		serviceRules,
		productRules,
		Dismissed{Services: dismissed.Services, Products: dismissed.Products},
		snap,
	), nil
}
