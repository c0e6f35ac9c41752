package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointments: appointment not found")

	// ErrInvalidStatus is returned for a status outside the four known values.
	ErrInvalidStatus = errors.New("appointments: invalid status")
)
