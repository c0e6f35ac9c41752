package rules

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
	All(ctx context.Context) (Set, error)
	List(ctx context.Context, kind catalog.ItemKind) ([]Rule, error)
	Create(ctx context.Context, kind catalog.ItemKind, in Input) (*Rule, error)
	Update(ctx context.Context, kind catalog.ItemKind, id int64, in Input) (*Rule, error)
	SetActive(ctx context.Context, kind catalog.ItemKind, id int64, active bool) (*Rule, error)
	Delete(ctx context.Context, kind catalog.ItemKind, id int64) error
}

// Handler serves rule management endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a rules HTTP handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts rule endpoints under /api/rules.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.all)
	r.Route("/services", h.kindRoutes(catalog.KindService))
	r.Route("/products", h.kindRoutes(catalog.KindProduct))
}

func (h *Handler) kindRoutes(kind catalog.ItemKind) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) { h.list(w, r, kind) })
		r.Post("/", func(w http.ResponseWriter, r *http.Request) { h.create(w, r, kind) })
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { h.update(w, r, kind) })
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { h.remove(w, r, kind) })
		r.Patch("/{id}/toggle", func(w http.ResponseWriter, r *http.Request) { h.toggle(w, r, kind) })
	}
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	set, err := h.repo.All(r.Context())
	if err != nil {
		h.fail(w, "all", "", err)
		return
	}
	respond.JSON(w, http.StatusOK, set)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, kind catalog.ItemKind) {
	list, err := h.repo.List(r.Context(), kind)
	if err != nil {
		h.fail(w, "list", kind, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, kind catalog.ItemKind) {
	var in Input
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := h.repo.Create(r.Context(), kind, in)
	if err != nil {
		h.fail(w, "create", kind, err)
		return
	}
	h.logger.Info("rule created", "rule_id", rule.ID, "kind", string(kind), "trigger", rule.Trigger)
	respond.JSON(w, http.StatusCreated, rule)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, kind catalog.ItemKind) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var in Input
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := h.repo.Update(r.Context(), kind, id, in)
	if err != nil {
		h.fail(w, "update", kind, err)
		return
	}
	respond.JSON(w, http.StatusOK, rule)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, kind catalog.ItemKind) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var in ToggleInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := h.repo.SetActive(r.Context(), kind, id, in.Active)
	if err != nil {
		h.fail(w, "toggle", kind, err)
		return
	}
	respond.JSON(w, http.StatusOK, rule)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, kind catalog.ItemKind) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Delete(r.Context(), kind, id); err != nil {
		h.fail(w, "delete", kind, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, kind catalog.ItemKind, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Rule not found")
	case errors.Is(err, ErrNoSuggestions):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("rules handler: "+op, "kind", string(kind), "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
