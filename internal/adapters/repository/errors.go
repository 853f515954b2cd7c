package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound        = errors.New("vehicle not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrCapacity        = errors.New("session store at capacity")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)
