package api

import (
	"errors"
	"net/http"

	"github.com/okian/versus/internal/domain/types"
)

// Sentinel kinds for API errors. The shared kinds come from the domain so
// handlers can classify service errors without importing the service.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = types.ErrNotFound
	ErrRateLimited  = types.ErrRateLimited
	ErrBackpressure = types.ErrBackpressure
	ErrUnavailable  = types.ErrUnavailable
)

// Error is an API failure tagged with the operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap annotates err with op, keeping its kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind annotates err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
