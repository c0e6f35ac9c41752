package recommend

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/appointments"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Recommender is implemented by *Service.
type Recommender interface {
	ForAppointment(ctx context.Context, appointmentID string) (Result, error)
}

// Handler exposes recommendations for an appointment.
type Handler struct {
	svc    Recommender
	logger *logging.Logger
}

// NewHandler creates a recommendation HTTP handler.
func NewHandler(svc Recommender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts under /api/appointments.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}/recommendations", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.ForAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("recommend handler: get", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
