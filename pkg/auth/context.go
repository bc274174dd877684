package auth

import "context"

type (
	userContextKey  struct{}
	guestContextKey struct{}
)

// WithUser stores the resolved user in ctx.
func WithUser(ctx context.Context, u *LoggedInUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored by Authenticate, if any.
func UserFromContext(ctx context.Context) (*LoggedInUser, bool) {
	u, ok := ctx.Value(userContextKey{}).(*LoggedInUser)
	return u, ok && u != nil
}

func WithGuest(ctx context.Context, marker string) context.Context {
	return context.WithValue(ctx, guestContextKey{}, marker)
}

// GuestFromContext returns the guest marker of an anonymous request.
func GuestFromContext(ctx context.Context) string {
	marker, _ := ctx.Value(guestContextKey{}).(string)
	return marker
}
