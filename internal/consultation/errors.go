package consultation

import "errors"

var (
	// ErrItemNotFound indicates no item with the given id exists in the section.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrRequiredItem indicates an attempt to remove a required item.
	ErrRequiredItem = errors.New("required checklist items cannot be removed")

	// ErrUnknownSection indicates a section name outside the checkable sections.
	ErrUnknownSection = errors.New("unknown checklist section")
)
