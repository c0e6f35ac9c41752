package outreach

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/salonassist/internal/clients"
	"github.com/wolfman30/salonassist/internal/observability/metrics"
	"github.com/wolfman30/salonassist/pkg/logging"
)

var tracer = otel.Tracer("salonassist.internal.outreach")

// Roster reads the generator's client inputs.
type Roster interface {
	List(ctx context.Context) ([]clients.Client, error)
	AllHistory(ctx context.Context) ([]clients.HistoryEntry, error)
}

// Repository persists suggestions.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Suggestion, error)
	Get(ctx context.Context, id int64) (*Suggestion, error)
	Pending(ctx context.Context) ([]Suggestion, error)
	InsertBatch(ctx context.Context, drafts []Draft) (int, error)
	MarkSent(ctx context.Context, id int64) error
	Dismiss(ctx context.Context, id int64) error
	Stats(ctx context.Context, now time.Time) (Stats, error)
}

// SettingsRepository stores the generator settings.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, st Settings) (Settings, error)
}

// Service runs generation and suggestion lifecycle operations.
type Service struct {
	roster    Roster
	repo      Repository
	settings  SettingsRepository
	generator *Generator
	renderer  *Renderer
	metrics   *metrics.OutreachMetrics
	logger    *logging.Logger
	now       func() time.Time

	// mu serializes generate-and-persist so concurrent runs share one
	// pending snapshot.
	mu sync.Mutex
}

// NewService wires the outreach service. m may be nil.
func NewService(roster Roster, repo Repository, settings SettingsRepository, generator *Generator, renderer *Renderer, m *metrics.OutreachMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		roster:    roster,
		repo:      repo,
		settings:  settings,
		generator: generator,
		renderer:  renderer,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds new suggestions from the current roster and stores them.
func (s *Service) Generate(ctx context.Context) (GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "outreach.generate")
	defer span.End()
	start := time.Now()

	s.mu.Lock()
	drafts, err := s.generate(ctx)
	var n int
	if err == nil {
		n, err = s.repo.InsertBatch(ctx, drafts)
	}
	s.mu.Unlock()

	s.metrics.ObserveGenerateDuration(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return GenerateResult{}, err
	}

	counts := make(map[Type]int)
	for _, d := range drafts {
		counts[d.Type]++
	}
	for t, c := range counts {
		s.metrics.ObserveGenerated(string(t), c)
	}
	span.SetAttributes(attribute.Int("outreach.generated", n))
	s.logger.Info("outreach suggestions generated", "generated", n)

	return GenerateResult{
		Success:   true,
		Generated: n,
		Message:   fmt.Sprintf("%d neue Vorschläge generiert", n),
	}, nil
}

func (s *Service) generate(ctx context.Context) ([]Draft, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("outreach: load settings: %w", err)
	}
	roster, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("outreach: load clients: %w", err)
	}
	history, err := s.roster.AllHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("outreach: load history: %w", err)
	}
	pending, err := s.repo.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("outreach: load pending: %w", err)
	}

	return s.generator.Generate(Input{
		Clients:  roster,
		Pending:  pending,
		History:  clients.Summarize(history),
		Settings: settings,
		Now:      s.now(),
	})
}

// List returns suggestions matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Suggestion, error) {
	return s.repo.List(ctx, f)
}

// Get returns one suggestion.
func (s *Service) Get(ctx context.Context, id int64) (*Suggestion, error) {
	return s.repo.Get(ctx, id)
}

// MarkSent records that the suggestion's email went out.
func (s *Service) MarkSent(ctx context.Context, id int64) error {
	err := s.repo.MarkSent(ctx, id)
	s.metrics.ObserveTransition(string(StatusSent), transitionResult(err))
	return err
}

// Dismiss discards a pending suggestion.
func (s *Service) Dismiss(ctx context.Context, id int64) error {
	err := s.repo.Dismiss(ctx, id)
	s.metrics.ObserveTransition(string(StatusDismissed), transitionResult(err))
	return err
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// Templates returns the built-in template catalog.
func (s *Service) Templates() []Template {
	return s.renderer.Templates()
}

// Stats aggregates suggestion counts as of now.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx, s.now())
}

// Settings returns the current generator settings.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return s.settings.Get(ctx)
}

// SaveSettings stores new generator settings.
func (s *Service) SaveSettings(ctx context.Context, st Settings) (Settings, error) {
	return s.settings.Save(ctx, st)
}
