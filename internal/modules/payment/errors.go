package payment

import "errors"

var (
	ErrIdentityRequired = errors.New("ci or nit is required")
	ErrNotFound         = errors.New("appointment not found")
	ErrForbidden        = errors.New("appointment belongs to another client")
	ErrNotAccepted      = errors.New("appointment is not accepted")
	ErrAlreadyPaid      = errors.New("appointment is already paid")
	ErrConflict         = errors.New("appointment changed while requesting payment")
	ErrTransactionID    = errors.New("transaction_id is required")
)
