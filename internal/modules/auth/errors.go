package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrBarbershopRequired = errors.New("barbershop_id is required for barbers")
	ErrBarbershopNotFound = errors.New("barbershop not found")
)
