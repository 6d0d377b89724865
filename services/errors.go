package services

import "errors"

// Error kinds returned by the aggregate services. Handlers map these to HTTP
// status codes with errors.Is; anything unrecognized surfaces as a generic
// server error.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidOperation = errors.New("invalid operation")
)
