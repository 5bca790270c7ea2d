package domain

import "errors"

var (
	// Common domain errors
	ErrGateway    = errors.New("payment gateway error")
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("entity not found")
)
