// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a bound request struct and returns a Response.
// Wrap turns it into an http.HandlerFunc, running the binders first and
// sending binding, nil-response and render failures to an ErrorHandler.
//
//	type RevokeRequest struct {
//		Code string `json:"code"`
//	}
//
//	func revoke(ctx handler.Context, req RevokeRequest) handler.Response {
//		res := sessions.RevokeByCode(ctx, req.Code)
//		return handler.JSONStatus(res.Status.HTTPStatus(), res.Message)
//	}
//
//	r.Post("/session/revoke", handler.Wrap(handler.HandlerFunc[handler.Context, RevokeRequest](revoke),
//		handler.WithBinders[handler.Context, RevokeRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, RevokeRequest](handler.NewErrorHandler(log)),
//	))
//
// Every body has the same envelope:
//
//	{"success": true, "message": "Session revoked successfully"}
//
// with endpoint-specific fields (WithFields) next to the two keys.
//
// # Errors
//
// NewErrorHandler classifies errors before answering:
//
//   - HTTPError uses its Code and Message.
//   - validator errors become 400 with the first failing rule's message.
//   - binder errors become 400 "Invalid request".
//   - anything else becomes 500 "Internal server error"; the cause is only logged.
//
// # Decorators
//
// Decorators wrap a HandlerFunc for cross-cutting checks on the bound
// request. The first decorator passed to WithDecorators is the outermost.
package handler
