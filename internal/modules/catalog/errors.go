package catalog

import "errors"

var (
	ErrBarbershopNotFound = errors.New("barbershop not found")
	ErrBarberNotFound     = errors.New("barber not found")
)
