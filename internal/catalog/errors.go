package catalog

import "errors"

var (
	// ErrNotFound is returned when a service, product or stylist does not exist.
	ErrNotFound = errors.New("catalog: item not found")

	// ErrDuplicateName is returned when a name is already taken.
	ErrDuplicateName = errors.New("catalog: name already exists")

	// ErrInvalidKind is returned for an item type other than service or product.
	ErrInvalidKind = errors.New("catalog: item type must be service or product")
)
