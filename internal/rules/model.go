package rules

import (
	"errors"

	"github.com/wolfman30/salonassist/internal/catalog"
)

var (
	// ErrNotFound is returned when a rule does not exist for the requested kind.
	ErrNotFound = errors.New("rules: rule not found")

	// ErrNoSuggestions is returned when a rule would be saved without suggestions.
	ErrNoSuggestions = errors.New("rules: at least one suggestion is required")
)

// Rule maps a trigger service to suggested services or products.
// Kind tells which of the two the suggestions name.
type Rule struct {
	ID          int64            `json:"id"`
	Kind        catalog.ItemKind `json:"-"`
	Trigger     string           `json:"trigger"`
	Suggestions []string         `json:"suggestions"`
	Reason      string           `json:"reason"`
	Active      bool             `json:"active"`
}

// Input is the create/update payload for both rule kinds.
type Input struct {
	Trigger     string   `json:"trigger" validate:"required"`
	Suggestions []string `json:"suggestions" validate:"min=1,dive,required"`
	Reason      string   `json:"reason"`
	Active      *bool    `json:"active"`
}

// ToggleInput flips the active flag.
type ToggleInput struct {
	Active bool `json:"active"`
}

// Set groups the rules of both kinds.
type Set struct {
	ServiceRules []Rule `json:"serviceRules"`
	ProductRules []Rule `json:"productRules"`
}

func normalizeSuggestions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
