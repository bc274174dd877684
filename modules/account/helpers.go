package account

import (
	"net/http"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pkg/binder"
)

// jsonRoute wraps h with the JSON body binder.
func jsonRoute[R any](o options, h handler.HandlerFunc[handler.Context, R], decorators ...handler.Decorator[handler.Context, R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binder.JSON()),
		handler.WithErrorHandler[handler.Context, R](o.errorHandler),
		handler.WithDecorators(decorators...),
	)
}

// route wraps h with the given binders, if any.
func route[R any](o options, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](o.errorHandler),
	)
}
