package outreach

import (
	"fmt"
	"time"
)

// Type classifies an outreach suggestion.
type Type string

const (
	TypeWinBack               Type = "win_back"
	TypeAppointmentReminder   Type = "appointment_reminder"
	TypeProductRecommendation Type = "product_recommendation"
	TypePromotion             Type = "promotion"
)

// ParseType validates a suggestion type from a query string.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeWinBack, TypeAppointmentReminder, TypeProductRecommendation, TypePromotion:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Status is the lifecycle state of a suggestion. Pending is the only
// non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDismissed Status = "dismissed"
)

// ParseStatus validates a status from a query string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusSent, StatusDismissed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Suggestion is a persisted outreach email draft.
type Suggestion struct {
	ID              int64      `json:"id"`
	ClientID        string     `json:"clientId"`
	ClientName      string     `json:"clientName"`
	ClientInterest  string     `json:"clientInterest,omitempty"`
	ClientLastVisit *time.Time `json:"clientLastVisit,omitempty"`
	Type            Type       `json:"type"`
	Reason          string     `json:"reason"`
	Subject         string     `json:"subject"`
	Content         string     `json:"content"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	SentAt          *time.Time `json:"sentAt"`
	DismissedAt     *time.Time `json:"dismissedAt,omitempty"`
}

// Draft is a generated suggestion that has not been stored yet.
type Draft struct {
	ClientID string
	Type     Type
	Reason   string
	Subject  string
	Content  string
}

// Filter narrows a suggestion listing. Empty fields match everything.
type Filter struct {
	Type   Type
	Status Status
}

// Settings tune the generator.
type Settings struct {
	WinBackThresholdDays int `json:"winBackThresholdDays"`
	ReminderDaysBefore   int `json:"reminderDaysBefore"`
}

// Normalize replaces non-positive values with defaults.
func (s Settings) Normalize(defaults Settings) Settings {
	if s.WinBackThresholdDays <= 0 {
		s.WinBackThresholdDays = defaults.WinBackThresholdDays
	}
	if s.ReminderDaysBefore <= 0 {
		s.ReminderDaysBefore = defaults.ReminderDaysBefore
	}
	return s
}

// TypeCounts breaks pending suggestions down by type.
type TypeCounts struct {
	WinBack               int `json:"winBack"`
	AppointmentReminder   int `json:"appointmentReminder"`
	ProductRecommendation int `json:"productRecommendation"`
	Promotion             int `json:"promotion"`
}

// Stats is the GET /api/outreach/stats payload.
type Stats struct {
	Pending       int        `json:"pending"`
	SentThisWeek  int        `json:"sentThisWeek"`
	SentThisMonth int        `json:"sentThisMonth"`
	ResponseRate  int        `json:"responseRate"`
	ByType        TypeCounts `json:"byType"`
}

const (
	estimatedResponseShare = 0.25
	maxResponseRate        = 35
)

// estimateResponseRate has no delivery feedback to work from, so it assumes a
// fixed share of sent emails get a response.
func estimateResponseRate(totalSent int) int {
	if totalSent == 0 {
		return 0
	}
	rate := ratioPercent(float64(totalSent)*estimatedResponseShare, float64(totalSent))
	if rate > maxResponseRate {
		return maxResponseRate
	}
	return rate
}

func ratioPercent(num, den float64) int {
	return int(num/den*100 + 0.5)
}

// GenerateResult is the POST /api/outreach/suggestions/generate payload.
type GenerateResult struct {
	Success   bool   `json:"success"`
	Generated int    `json:"generated"`
	Message   string `json:"message"`
}
