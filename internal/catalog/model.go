package catalog

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind tags whether a name refers to a service or a product.
type ItemKind string

const (
	KindService ItemKind = "service"
	KindProduct ItemKind = "product"
)

// ParseItemKind accepts "service" or "product" in any case.
func ParseItemKind(s string) (ItemKind, error) {
	switch ItemKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindService:
		return KindService, nil
	case KindProduct:
		return KindProduct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Service is a bookable salon service.
type Service struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Duration  int       `json:"duration"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is a retail product.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	UseCase   string    `json:"useCase"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stylist works appointments.
type Stylist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	Active      bool     `json:"active"`
}

// ServiceInput is the create/update payload for services.
type ServiceInput struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category"`
	Duration int     `json:"duration" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Active   *bool   `json:"active"`
}

// ProductInput is the create/update payload for products.
type ProductInput struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price" validate:"gte=0"`
	UseCase  string  `json:"useCase"`
	Active   *bool   `json:"active"`
}

// ToggleInput flips the active flag.
type ToggleInput struct {
	Active bool `json:"active"`
}

func activeOrDefault(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

// Snapshot is a point-in-time view of the catalog keyed by name.
type Snapshot struct {
	services map[string]Service
	products map[string]Product
}

// NewSnapshot indexes the given services and products by name.
func NewSnapshot(services []Service, products []Product) *Snapshot {
	s := &Snapshot{
		services: make(map[string]Service, len(services)),
		products: make(map[string]Product, len(products)),
	}
	for _, svc := range services {
		s.services[svc.Name] = svc
	}
	for _, p := range products {
		s.products[p.Name] = p
	}
	return s
}

// IsServiceActive reports whether name is a known, active service.
func (s *Snapshot) IsServiceActive(name string) bool {
	svc, ok := s.services[name]
	return ok && svc.Active
}

// IsProductActive reports whether name is a known, active product.
func (s *Snapshot) IsProductActive(name string) bool {
	p, ok := s.products[name]
	return ok && p.Active
}

// ServicePrice returns the catalog price of a service or fallback when unknown.
func (s *Snapshot) ServicePrice(name string, fallback float64) float64 {
	if svc, ok := s.services[name]; ok {
		return svc.Price
	}
	return fallback
}

// ProductPrice returns the catalog price of a product or fallback when unknown.
func (s *Snapshot) ProductPrice(name string, fallback float64) float64 {
	if p, ok := s.products[name]; ok {
		return p.Price
	}
	return fallback
}
