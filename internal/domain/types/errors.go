package types

import "errors"

// Error kinds shared by the service and the transport layer. Service errors
// wrap one of these so handlers can map them without importing adapters.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)
