package patient

import "errors"

// Failure classes surfaced by the service. Handlers map these onto HTTP
// statuses with errors.Is, so wrapped causes stay inspectable.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("patient not found")
	ErrPersistence = errors.New("persistence failed")
)
