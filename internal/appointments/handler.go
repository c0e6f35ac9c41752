package appointments

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Repository is the persistence surface the handler needs.
type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, in CreateInput) (*Appointment, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Appointment, error)
	AddService(ctx context.Context, id, name string) (*Appointment, error)
	AddProduct(ctx context.Context, id, name string) (*Appointment, error)
	Dismiss(ctx context.Context, id, itemName string, kind catalog.ItemKind) error
	Dismissed(ctx context.Context, id string) (Dismissed, error)
}

// Handler serves appointment endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates an appointment HTTP handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts appointment endpoints under /api/appointments.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/services", h.addService)
	r.Post("/{id}/products", h.addProduct)
	r.Post("/{id}/dismiss", h.dismiss)
	r.Get("/{id}/dismissed", h.dismissed)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	appts, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "list", "", err)
		return
	}
	respond.JSON(w, http.StatusOK, appts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create", "", err)
		return
	}
	h.logger.Info("appointment created", "appointment_id", a.ID, "services", len(a.Services))
	respond.JSON(w, http.StatusCreated, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in UpdateInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) addService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in AddServiceInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.repo.AddService(r.Context(), id, in.ServiceName)
	if err != nil {
		h.fail(w, "add service", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in AddProductInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.repo.AddProduct(r.Context(), id, in.ProductName)
	if err != nil {
		h.fail(w, "add product", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in DismissInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := catalog.ParseItemKind(in.ItemType)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Dismiss(r.Context(), id, in.ItemName, kind); err != nil {
		h.fail(w, "dismiss", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) dismissed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.repo.Dismissed(r.Context(), id)
	if err != nil {
		h.fail(w, "dismissed", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) fail(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("appointments handler: "+op, "appointment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
