package outreach

import "errors"

var (
	// ErrNotFound is returned when a suggestion does not exist.
	ErrNotFound = errors.New("outreach: suggestion not found")

	// ErrConflict is returned when a suggestion is no longer pending.
	ErrConflict = errors.New("outreach: suggestion is not pending")

	// ErrInvalidType is returned for an unknown suggestion type.
	ErrInvalidType = errors.New("outreach: invalid suggestion type")

	// ErrInvalidStatus is returned for an unknown suggestion status.
	ErrInvalidStatus = errors.New("outreach: invalid suggestion status")
)
