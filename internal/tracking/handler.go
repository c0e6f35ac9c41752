package tracking

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Recorder is implemented by *Store.
type Recorder interface {
	Record(ctx context.Context, itemName string, kind catalog.ItemKind, event Event) error
	All(ctx context.Context) (map[string]Counter, error)
}

// EventInput is the body of POST /api/tracking/{event}.
type EventInput struct {
	ItemName string `json:"itemName" validate:"required"`
	Type     string `json:"type" validate:"required"`
}

// Handler serves recommendation tracking.
type Handler struct {
	store  Recorder
	logger *logging.Logger
}

// NewHandler creates a tracking HTTP handler.
func NewHandler(store Recorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes mounts under /api/tracking.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{event}", h.record)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	counters, err := h.store.All(r.Context())
	if err != nil {
		h.logger.Error("tracking handler: list", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, counters)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	event, err := ParseEvent(chi.URLParam(r, "event"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, err.Error())
		return
	}
	var in EventInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := catalog.ParseItemKind(in.Type)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Record(r.Context(), in.ItemName, kind, event); err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("tracking handler: record", "event", string(event), "item", in.ItemName, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
