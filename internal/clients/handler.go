package clients

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Reader is the read surface of the client repository.
type Reader interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	History(ctx context.Context, clientID string) ([]HistoryEntry, error)
}

// Handler serves client lookups.
type Handler struct {
	repo   Reader
	logger *logging.Logger
}

// NewHandler creates a client HTTP handler.
func NewHandler(repo Reader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts client endpoints under /api/clients.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/history", h.history)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("clients handler: list", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, clients)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := h.repo.History(r.Context(), id)
	if err != nil {
		h.fail(w, "history", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}

func (h *Handler) fail(w http.ResponseWriter, op, clientID string, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Client not found")
		return
	}
	h.logger.Error("clients handler: "+op, "client_id", clientID, "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}
