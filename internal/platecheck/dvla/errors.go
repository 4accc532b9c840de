package dvla

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed enquiry.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "NotFound"
	KindInvalidRequest     ErrorKind = "InvalidRequest"
	KindServiceUnavailable ErrorKind = "ServiceUnavailable"
	KindNetworkFailure     ErrorKind = "NetworkFailure"
	KindUnknown            ErrorKind = "UnknownApiError"
)

// APIError is returned by Client.Fetch for every failure.
type APIError struct {
	Kind ErrorKind
	// StatusCode is the upstream HTTP status, 0 when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("vehicle enquiry %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("vehicle enquiry %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Failure renders e as the proxy failure body.
func (e *APIError) Failure() FailureResponse {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusServiceUnavailable
	}
	return FailureResponse{Success: false, Error: e.Message, StatusCode: status}
}

// kindForStatus maps a non-2xx upstream status to an error kind.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalidRequest
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindServiceUnavailable
	default:
		return KindUnknown
	}
}
