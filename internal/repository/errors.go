package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRate is returned when a labor rate is empty or not positive.
var ErrInvalidRate = errors.New("invalid labor rate")
