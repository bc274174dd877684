package binder

import "net/http"

// Query creates a query string binder. Only fields tagged `query:"name"`
// are bound.
//
//	type CallbackRequest struct {
//		Code  string `query:"code"`
//		State string `query:"state"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
