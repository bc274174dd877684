package account

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/binder"
	"github.com/dmitrymomot/authcore/pkg/device"
)

const (
	msgMeNotLoggedIn    = "You're not logged in!"
	msgInvalidSessionID = "Invalid sessionId"
)

var (
	errUnknownProvider = handler.ErrBadRequest.WithMessage(auth.MsgUnknownProvider)
	errStateMismatch   = handler.ErrBadRequest.WithMessage(auth.MsgStateMismatch)
)

// AuthService serves sign-in, sign-up and session endpoints.
type AuthService struct {
	options
	transport   *auth.CookieTransport
	sessions    *auth.SessionManager
	oauth       *auth.OAuthController
	credentials *auth.CredentialController
	devices     device.Resolver
}

func NewAuthService(
	transport *auth.CookieTransport,
	sessions *auth.SessionManager,
	oauth *auth.OAuthController,
	credentials *auth.CredentialController,
	devices device.Resolver,
	opts ...Option,
) *AuthService {
	return &AuthService{
		options:     newOptions(opts),
		transport:   transport,
		sessions:    sessions,
		oauth:       oauth,
		credentials: credentials,
		devices:     devices,
	}
}

func (s *AuthService) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Get("/me", route(s.options, s.me))

	for _, intent := range []auth.Intent{auth.IntentSignIn, auth.IntentSignUp} {
		r.Get("/"+string(intent)+"/get-oauth-url/{provider}", route(s.options, s.oauthURL(intent), path))
		r.Get("/callback/"+string(intent)+"/{provider}", route(s.options, s.callback(intent), path, binder.Query()))
	}

	r.Post("/signin/credential", jsonRoute(s.options, s.signInCredential))
	r.Post("/session/revoke", jsonRoute(s.options, s.revoke))
	r.With(s.transport.RequireLogin).Post("/session/logout", jsonRoute(s.options, s.logout))

	return r
}

func (s *AuthService) me(ctx handler.Context, _ empty) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.JSONError(http.StatusUnauthorized, msgMeNotLoggedIn)
	}

	fields := userFields(user.User)
	fields["sessionId"] = user.SessionID
	fields["sessionToken"] = user.SessionToken
	return handler.JSON("", handler.WithFields(fields))
}

func (s *AuthService) oauthURL(intent auth.Intent) handler.HandlerFunc[handler.Context, providerRequest] {
	return func(ctx handler.Context, req providerRequest) handler.Response {
		if !s.oauth.Supports(req.Provider) {
			return handler.Error(errors.Join(errUnknownProvider, auth.ErrUnknownProvider))
		}

		url, state := s.oauth.AuthorizationURL(req.Provider, intent)
		if url == "" {
			return handler.Error(fmt.Errorf("authorization url for %s: empty", req.Provider))
		}
		s.transport.SetState(ctx.ResponseWriter(), state)
		return handler.JSON("", handler.WithFields(handler.Fields{"url": url}))
	}
}

func (s *AuthService) callback(intent auth.Intent) handler.HandlerFunc[handler.Context, callbackRequest] {
	return func(ctx handler.Context, req callbackRequest) handler.Response {
		if _, ok := currentUser(ctx); ok {
			return handler.JSONError(http.StatusBadRequest, auth.MsgAlreadyLoggedIn)
		}
		if !s.oauth.Supports(req.Provider) {
			return handler.Error(errors.Join(errUnknownProvider, auth.ErrUnknownProvider))
		}
		if !s.transport.VerifyState(ctx.ResponseWriter(), ctx.Request(), req.State, intent) {
			return handler.Error(errors.Join(errStateMismatch, auth.ErrStateMismatch))
		}

		dev := s.devices.Resolve(ctx, ctx.Request())
		if intent == auth.IntentSignUp {
			return s.establish(ctx, s.oauth.SignUp(ctx, req.Provider, req.Code, dev))
		}
		return s.establish(ctx, s.oauth.SignIn(ctx, req.Provider, req.Code, dev))
	}
}

func (s *AuthService) signInCredential(ctx handler.Context, req credentialRequest) handler.Response {
	if _, ok := currentUser(ctx); ok {
		return handler.JSONError(http.StatusBadRequest, auth.MsgAlreadyLoggedIn)
	}
	dev := s.devices.Resolve(ctx, ctx.Request())
	return s.establish(ctx, s.credentials.SignIn(ctx, req.Email, req.Password, dev))
}

// establish sets the auth cookie for a successful sign-in or sign-up.
func (s *AuthService) establish(ctx handler.Context, res auth.AuthResult) handler.Response {
	if !res.OK() {
		return result(res.Result)
	}
	if err := s.transport.SetSession(ctx.ResponseWriter(), res.Cookie); err != nil {
		return handler.Error(fmt.Errorf("set session cookie: %w", err))
	}
	return result(res.Result)
}

func (s *AuthService) logout(ctx handler.Context, req logoutRequest) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}
	if req.SessionID < 0 {
		return handler.JSONError(http.StatusBadRequest, msgInvalidSessionID)
	}

	res := s.sessions.Logout(ctx, user.ID, req.SessionID)
	if res.OK() && req.SessionID == user.SessionID {
		s.transport.ClearSession(ctx.ResponseWriter())
	}
	return result(res)
}

func (s *AuthService) revoke(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.sessions.RevokeByCode(ctx, req.Code))
}
