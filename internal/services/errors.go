package services

import "errors"

// Shared service-level errors. Handlers map these onto the API error
// taxonomy: not-found errors become 404, validation and conflict errors
// become 400, anything else becomes 500.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
