package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/salonassist/internal/http/respond"
	"github.com/wolfman30/salonassist/pkg/logging"
)

// Repository is the persistence surface the handler needs.
type Repository interface {
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (*Service, error)
	CreateService(ctx context.Context, in ServiceInput) (*Service, error)
	UpdateService(ctx context.Context, id int64, in ServiceInput) (*Service, error)
	SetServiceActive(ctx context.Context, id int64, active bool) (*Service, error)
	DeleteService(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error)
	SetProductActive(ctx context.Context, id int64, active bool) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListStylists(ctx context.Context) ([]Stylist, error)
	GetStylist(ctx context.Context, id string) (*Stylist, error)
}

// Handler serves the service, product and stylist catalog.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a catalog HTTP handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts catalog endpoints. Expected to be mounted under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.listServices)
		r.Post("/", h.createService)
		r.Get("/{id}", h.getService)
		r.Put("/{id}", h.updateService)
		r.Delete("/{id}", h.deleteService)
		r.Patch("/{id}/toggle", h.toggleService)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
		r.Patch("/{id}/toggle", h.toggleProduct)
	})
	r.Get("/stylists", h.listStylists)
	r.Get("/stylists/{id}", h.getStylist)
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListServices(r.Context())
	if err != nil {
		h.fail(w, "list services", err)
		return
	}
	if services == nil {
		services = []Service{}
	}
	respond.JSON(w, http.StatusOK, services)
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, err := h.repo.GetService(r.Context(), id)
	if err != nil {
		h.fail(w, "get service", err)
		return
	}
	respond.JSON(w, http.StatusOK, svc)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var in ServiceInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, err := h.repo.CreateService(r.Context(), in)
	if err != nil {
		h.fail(w, "create service", err)
		return
	}
	h.logger.Info("service created", "service_id", svc.ID, "name", svc.Name)
	respond.JSON(w, http.StatusCreated, svc)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var in ServiceInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, err := h.repo.UpdateService(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update service", err)
		return
	}
	respond.JSON(w, http.StatusOK, svc)
}

func (h *Handler) toggleService(w http.ResponseWriter, r *http.Request) {
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
	svc, err := h.repo.SetServiceActive(r.Context(), id, in.Active)
	if err != nil {
		h.fail(w, "toggle service", err)
		return
	}
	respond.JSON(w, http.StatusOK, svc)
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.DeleteService(r.Context(), id); err != nil {
		h.fail(w, "delete service", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	respond.JSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.repo.CreateProduct(r.Context(), in)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	h.logger.Info("product created", "product_id", p.ID, "name", p.Name)
	respond.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var in ProductInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.repo.UpdateProduct(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) toggleProduct(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.repo.SetProductActive(r.Context(), id, in.Active)
	if err != nil {
		h.fail(w, "toggle product", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IntParam(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listStylists(w http.ResponseWriter, r *http.Request) {
	stylists, err := h.repo.ListStylists(r.Context())
	if err != nil {
		h.fail(w, "list stylists", err)
		return
	}
	if stylists == nil {
		stylists = []Stylist{}
	}
	respond.JSON(w, http.StatusOK, stylists)
}

func (h *Handler) getStylist(w http.ResponseWriter, r *http.Request) {
	st, err := h.repo.GetStylist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get stylist", err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrDuplicateName):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("catalog handler: "+op, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
