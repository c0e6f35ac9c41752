package appointments

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusNoShow     Status = "No-show"
)

// ParseStatus accepts only the exact status spellings.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusNoShow:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Appointment is a booking with its ordered services and products.
type Appointment struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId,omitempty"`
	ClientName  string    `json:"client"`
	StylistID   string    `json:"stylistId,omitempty"`
	StylistName string    `json:"stylist,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes"`
	Services    []string  `json:"services"`
	Products    []string  `json:"products"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateInput is the POST /api/appointments payload.
type CreateInput struct {
	ClientID    string   `json:"clientId"`
	ClientName  string   `json:"client" validate:"required"`
	StylistID   string   `json:"stylistId"`
	StylistName string   `json:"stylist"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string   `json:"time"`
	Status      string   `json:"status"`
	Notes       string   `json:"notes"`
	Services    []string `json:"services" validate:"min=1,dive,required"`
	Products    []string `json:"products" validate:"dive,required"`
}

// UpdateInput changes status and/or notes. Nil fields are left untouched.
type UpdateInput struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// AddServiceInput appends a service to an appointment.
type AddServiceInput struct {
	ServiceName string `json:"serviceName" validate:"required"`
}

// AddProductInput appends a product to an appointment.
type AddProductInput struct {
	ProductName string `json:"productName" validate:"required"`
}

// DismissInput records a dismissed recommendation.
type DismissInput struct {
	ItemName string `json:"itemName" validate:"required"`
	ItemType string `json:"itemType" validate:"required"`
}

// Dismissed lists the recommendation names dismissed for an appointment.
type Dismissed struct {
	Services []string `json:"services"`
	Products []string `json:"products"`
}
