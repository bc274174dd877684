package handler

import (
	"encoding/json"
	"maps"
	"net/http"
)

// Fields are endpoint-specific payload values written next to success
// and message.
type Fields map[string]any

// jsonResponse renders {"success": ..., "message": ..., ...fields}.
type jsonResponse struct {
	status  int
	success bool
	message string
	fields  Fields
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	body := make(map[string]any, len(j.fields)+2)
	maps.Copy(body, j.fields)
	body["success"] = j.success
	body["message"] = j.message

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithFields adds payload fields. success and message cannot be overridden.
func WithFields(fields Fields) JSONOption {
	return func(r *jsonResponse) {
		if r.fields == nil {
			r.fields = make(Fields, len(fields))
		}
		maps.Copy(r.fields, fields)
	}
}

// JSON creates a successful response with status 200.
//
//	return handler.JSON("Successfully logged in", handler.WithFields(handler.Fields{"url": u}))
func JSON(message string, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, success: true, message: message}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates a failed response. Status codes below 400 are raised
// to 500.
func JSONError(status int, message string, opts ...JSONOption) Response {
	r := &jsonResponse{status: status, message: message}
	for _, opt := range opts {
		opt(r)
	}
	if r.status < http.StatusBadRequest {
		r.status = http.StatusInternalServerError
	}
	return r
}

// JSONStatus picks JSON or JSONError from the status code.
func JSONStatus(status int, message string, opts ...JSONOption) Response {
	if status >= http.StatusBadRequest {
		return JSONError(status, message, opts...)
	}
	return JSON(message, append([]JSONOption{WithJSONStatus(status)}, opts...)...)
}
