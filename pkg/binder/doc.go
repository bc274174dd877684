// Package binder fills request structs from JSON bodies, path parameters
// and query strings.
//
// Each binder only touches the fields it owns: JSON uses `json` tags,
// Path uses `path` tags and Query uses `query` tags, so several binders
// can populate one struct.
//
//	type CallbackRequest struct {
//	    Intent   string `path:"intent"`
//	    Provider string `path:"provider"`
//	    Code     string `query:"code"`
//	    State    string `query:"state"`
//	}
//
//	r.Get("/callback/{intent}/{provider}", handler.Wrap(callback,
//	    handler.WithBinders[handler.Context, CallbackRequest](
//	        binder.Path(chi.URLParam),
//	        binder.Query(),
//	    ),
//	))
//
// Failures wrap ErrUnsupportedMediaType, ErrMissingContentType,
// ErrInvalidJSON, ErrInvalidQuery or ErrInvalidPath; IsBindError reports
// any of them.
package binder
