package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Auth Mountable
	User Mountable
}

// Router mounts the auth services under /auth and /user. The caller is
// expected to run auth.CookieTransport.Authenticate before it.
//
//	r := chi.NewRouter()
//	r.Use(transport.Authenticate)
//	r.Mount("/", account.Router(account.RouterOptions{
//	    Auth: account.NewAuthService(transport, sessions, oauth, credentials, devices),
//	    User: account.NewUserService(transport, sessions, accounts, confirmations),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Auth != nil {
		r.Mount("/auth", opts.Auth.Handle())
	}
	if opts.User != nil {
		r.Mount("/user", opts.User.Handle())
	}

	return r
}
