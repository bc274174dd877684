package account

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pkg/auth"
)

var (
	errNotLoggedIn    = handler.ErrUnauthorized.WithMessage(auth.MsgNotLoggedIn)
	errInvalidRequest = handler.ErrBadRequest.WithMessage(auth.MsgInvalidRequest)
)

// result renders a controller Result with its mapped status code.
func result(res auth.Result, opts ...handler.JSONOption) handler.Response {
	return handler.JSONStatus(res.Status.HTTPStatus(), res.Message, opts...)
}

func userFields(u auth.User) handler.Fields {
	return handler.Fields{
		"id":             u.ID,
		"email":          u.Email,
		"fullName":       u.FullName,
		"userName":       u.UserName,
		"role":           u.Role,
		"hasAPassword":   u.HasPassword(),
		"avatarImageUrl": u.AvatarURL,
		"avatarProvider": u.AvatarProvider,
	}
}

func currentUser(ctx context.Context) (*auth.LoggedInUser, bool) {
	u, ok := auth.UserFromContext(ctx)
	return u, ok && u != nil
}

// codeRequired rejects requests without a code before they reach the
// confirmation engine. With charge set, the attempt also costs
// ChargeInvalidData.
func codeRequired[R interface{ code() string }](o options, charge bool) handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			if req.code() == "" {
				if charge {
					o.charge(ctx, auth.ChargeInvalidData)
				}
				return handler.JSONError(http.StatusBadRequest, auth.MsgInvalidRequest)
			}
			return next(ctx, req)
		}
	}
}
