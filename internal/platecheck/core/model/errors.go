package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a lookup failure for caller-facing messaging.
type ErrorKind string

const (
	KindInvalidRegistration ErrorKind = "InvalidRegistration"
	KindInvalidTier         ErrorKind = "InvalidTier"
	KindNotFound            ErrorKind = "NotFound"
	KindInvalidRequest      ErrorKind = "InvalidRequest"
	KindServiceUnavailable  ErrorKind = "ServiceUnavailable"
	KindNetworkFailure      ErrorKind = "NetworkFailure"
	KindUnknownAPI          ErrorKind = "UnknownApiError"
)

// NotFoundMessage is shown for every miss, whichever source produced it.
const NotFoundMessage = "vehicle not found"

// ErrVehicleNotFound is returned by data sources that have no record for a registration.
var ErrVehicleNotFound = errors.New(NotFoundMessage)

// ResolutionError is the only error type a lookup surfaces to callers.
type ResolutionError struct {
	Kind ErrorKind
	// StatusCode is the upstream HTTP status when one was received, otherwise 0.
	StatusCode int
	// Message is safe to show to end users.
	Message string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NewNotFound builds the uniform not-found error. The cause is kept for logs only.
func NewNotFound(cause error) *ResolutionError {
	return &ResolutionError{
		Kind:       KindNotFound,
		StatusCode: http.StatusNotFound,
		Message:    NotFoundMessage,
		Err:        cause,
	}
}

// KindOf returns the kind of a ResolutionError in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// HTTPStatus maps a kind to the status an API surface should answer with.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidRegistration, KindInvalidTier, KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindServiceUnavailable, KindNetworkFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
