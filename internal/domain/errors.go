package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP codes;
// ErrConflict is the only one a caller may safely retry unchanged.
var (
	ErrNotFound                = errors.New("resource not found")
	ErrValidation              = errors.New("invalid input")
	ErrDuplicate               = errors.New("duplicate resource")
	ErrConflict                = errors.New("conflict with current state")
	ErrItemInactive            = errors.New("item is inactive")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInsufficientLotQuantity = errors.New("insufficient lot quantity")
)
