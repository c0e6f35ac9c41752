package outreach

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Backend is the service surface the handler needs.
type Backend interface {
	Generate(ctx context.Context) (GenerateResult, error)
	List(ctx context.Context, f Filter) ([]Suggestion, error)
	Get(ctx context.Context, id int64) (*Suggestion, error)
	MarkSent(ctx context.Context, id int64) error
	Dismiss(ctx context.Context, id int64) error
	Templates() []Template
	Stats(ctx context.Context) (Stats, error)
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, st Settings) (Settings, error)
}

// Handler serves outreach endpoints.
type Handler struct {
	svc    Backend
	logger *logging.Logger
}

// NewHandler creates an outreach HTTP handler.
func NewHandler(svc Backend, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts outreach endpoints under /api/outreach.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/suggestions", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/generate", h.generate)
		r.Get("/{id}", h.get)
		r.Post("/{id}/send", h.send)
		r.Post("/{id}/dismiss", h.dismiss)
	})
	r.Get("/templates", h.templates)
	r.Get("/stats", h.stats)
	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.putSettings)
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type settingsResponse struct {
	Success bool `json:"success"`
	Settings
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var f Filter
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		t, err := ParseType(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Type = t
	}
	if v := q.Get("status"); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Status = st
	}

	list, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sg, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	respond.JSON(w, http.StatusOK, sg)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Generate(r.Context())
	if err != nil {
		h.fail(w, "generate", err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "send", h.svc.MarkSent, "E-Mail als gesendet markiert")
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "dismiss", h.svc.Dismiss, "Vorschlag verworfen")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, int64) error, msg string) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := fn(r.Context(), id); err != nil {
		h.fail(w, op, err)
		return
	}
	h.logger.Info("outreach suggestion "+op, "suggestion_id", id)
	respond.JSON(w, http.StatusOK, actionResponse{Success: true, Message: msg})
}

func (h *Handler) templates(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Templates())
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, "stats", err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Settings(r.Context())
	if err != nil {
		h.fail(w, "get settings", err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var in Settings
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := h.svc.SaveSettings(r.Context(), in)
	if err != nil {
		h.fail(w, "put settings", err)
		return
	}
	respond.JSON(w, http.StatusOK, settingsResponse{Success: true, Settings: st})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Suggestion not found")
	case errors.Is(err, ErrConflict):
		respond.Error(w, http.StatusConflict, "Suggestion is no longer pending")
	default:
		h.logger.Error("outreach handler: "+op, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
