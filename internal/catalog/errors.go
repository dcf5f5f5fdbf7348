package catalog

import "errors"

var (
	// ErrUnknownTemplate indicates a template id outside the catalogue.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrInvalidCatalog indicates the catalogue data failed validation.
	ErrInvalidCatalog = errors.New("invalid template catalog")
)
