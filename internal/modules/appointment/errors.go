package appointment

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrInvalidStatus  = errors.New("status cannot be set by this user")
	ErrInvalidService = errors.New("service does not belong to the barbershop")
	ErrInvalidBarber  = errors.New("barber does not work at the barbershop")
	ErrNotFound       = errors.New("appointment not found")
	ErrForbidden      = errors.New("appointment belongs to another user")
	ErrConflict       = errors.New("appointment was modified concurrently")
	ErrAlreadyPaid    = errors.New("appointment payment is not pending")
)
