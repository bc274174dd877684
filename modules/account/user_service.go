package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/validator"
)

// UserService serves profile, password and account-deletion endpoints.
type UserService struct {
	options
	transport     *auth.CookieTransport
	sessions      *auth.SessionManager
	accounts      *auth.AccountService
	confirmations *auth.ConfirmationEngine
}

func NewUserService(
	transport *auth.CookieTransport,
	sessions *auth.SessionManager,
	accounts *auth.AccountService,
	confirmations *auth.ConfirmationEngine,
	opts ...Option,
) *UserService {
	return &UserService{
		options:       newOptions(opts),
		transport:     transport,
		sessions:      sessions,
		accounts:      accounts,
		confirmations: confirmations,
	}
}

func (s *UserService) Handle() http.Handler {
	r := chi.NewRouter()
	o := s.options

	r.Group(func(r chi.Router) {
		r.Use(s.transport.RequireLogin)

		r.Post("/update-profile", jsonRoute(o, s.updateProfile))
		r.Get("/get-linked-auth-providers", route(o, s.linkedProviders))
		r.Get("/get-all-sessions", route(o, s.allSessions))
		r.Post("/add-new-password", jsonRoute(o, s.addNewPassword))
		r.Post("/remove-account-password", jsonRoute(o, s.removePassword))
		r.Post("/delete-account", route(o, s.deleteAccount))
	})

	r.Post("/get-confirm-action-type", jsonRoute(o, s.actionType, codeRequired[codeRequest](o, false)))
	r.Post("/confirm-adding-new-password", jsonRoute(o, s.confirmNewPassword, codeRequired[codeRequest](o, false)))
	r.Post("/cancel-adding-new-password", jsonRoute(o, s.cancelNewPassword, codeRequired[codeRequest](o, false)))
	r.Post("/send-password-change-email", jsonRoute(o, s.sendPasswordChangeEmail))
	r.Post("/set-new-password", jsonRoute(o, s.setNewPassword, codeRequired[setNewPasswordRequest](o, false)))
	r.Post("/cancel-settings-new-password", jsonRoute(o, s.cancelPasswordChange, codeRequired[codeRequest](o, false)))
	r.Post("/confirm-account-deletion", jsonRoute(o, s.confirmDeletion, codeRequired[codeRequest](o, true)))
	r.Post("/cancel-account-deletion", jsonRoute(o, s.cancelDeletion, codeRequired[codeRequest](o, true)))

	return r
}

func (s *UserService) updateProfile(ctx handler.Context, req profileRequest) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}

	updated, res := s.accounts.UpdateProfile(ctx, user.User, auth.ProfileInput{
		FullName:       req.FullName,
		UserName:       req.UserName,
		AvatarProvider: req.AvatarProvider,
	})
	if !res.OK() {
		return result(res)
	}
	return result(res, handler.WithFields(handler.Fields{"profileData": userFields(updated)}))
}

func (s *UserService) linkedProviders(ctx handler.Context, _ empty) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}

	providers, err := s.accounts.LinkedProviders(ctx, user.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON("", handler.WithFields(handler.Fields{"providers": providers}))
}

func (s *UserService) allSessions(ctx handler.Context, _ empty) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}

	sessions, err := s.sessions.List(ctx, user.ID, user.SessionID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON("", handler.WithFields(handler.Fields{"sessions": sessions}))
}

func (s *UserService) addNewPassword(ctx handler.Context, req newPasswordRequest) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}
	return result(s.confirmations.RequestNewPassword(ctx, user.User, req.NewPassword, req.ConfirmNewPassword))
}

func (s *UserService) removePassword(ctx handler.Context, req passwordRequest) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}
	return result(s.accounts.RemovePassword(ctx, user.User, req.Password))
}

func (s *UserService) deleteAccount(ctx handler.Context, _ empty) handler.Response {
	user, ok := currentUser(ctx)
	if !ok {
		return handler.Error(errNotLoggedIn)
	}
	return result(s.confirmations.RequestAccountDeletion(ctx, user.User))
}

func (s *UserService) actionType(ctx handler.Context, req codeRequest) handler.Response {
	action, res := s.confirmations.ActionTypeFromCode(ctx, req.Code)
	if !res.OK() {
		return result(res)
	}
	return handler.JSON("", handler.WithFields(handler.Fields{"actionType": action}))
}

func (s *UserService) confirmNewPassword(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.confirmations.ConfirmNewPassword(ctx, req.Code))
}

func (s *UserService) cancelNewPassword(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.confirmations.CancelNewPassword(ctx, req.Code))
}

func (s *UserService) sendPasswordChangeEmail(ctx handler.Context, req emailRequest) handler.Response {
	if err := validator.Apply(validator.ValidEmail("email", req.Email)); err != nil {
		return handler.Error(err)
	}
	return result(s.confirmations.RequestPasswordChange(ctx, req.Email))
}

func (s *UserService) setNewPassword(ctx handler.Context, req setNewPasswordRequest) handler.Response {
	return result(s.confirmations.SetNewPassword(ctx, req.Code, req.NewPassword, req.ConfirmNewPassword))
}

func (s *UserService) cancelPasswordChange(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.confirmations.CancelPasswordChange(ctx, req.Code))
}

func (s *UserService) confirmDeletion(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.confirmations.ConfirmAccountDeletion(ctx, req.Code))
}

func (s *UserService) cancelDeletion(ctx handler.Context, req codeRequest) handler.Response {
	return result(s.confirmations.CancelAccountDeletion(ctx, req.Code))
}
