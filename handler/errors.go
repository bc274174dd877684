package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler.nil_response")

// HTTPError is an error with a status code. Key identifies it in logs and
// Message is what the client sees.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string {
	return e.Key
}

// WithMessage returns a copy of e carrying msg for the client.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request", Message: "Invalid request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized", Message: "You're not logged in"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "Not found"}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed", Message: "Method not allowed"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests", Message: "Too many requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error", Message: "Internal server error"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable", Message: "Service unavailable"}
)

// NewHTTPError creates a custom HTTP error.
//
//	err := handler.NewHTTPError(http.StatusBadRequest, "unknown_provider", "Unknown auth provider")
func NewHTTPError(code int, key, message string) HTTPError {
	return HTTPError{Code: code, Key: key, Message: message}
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that hands err to the ErrorHandler, so the
// failure is logged and classified like a binding error.
//
//	return handler.Error(errors.Join(handler.ErrBadRequest.WithMessage(msg), auth.ErrUnknownProvider))
func Error(err error) Response {
	return errorResponse{err: err}
}
