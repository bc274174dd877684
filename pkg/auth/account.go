package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/sanitizer"
	"github.com/dmitrymomot/authcore/pkg/validator"
)

// Input length limits, counted in characters.
const (
	MinUserNameLength = 3
	MaxUserNameLength = 32
	MinFullNameLength = 3
	MaxFullNameLength = 64
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

var cleanName = sanitizer.Compose(sanitizer.StripHTML, sanitizer.NormalizeWhitespace)

// AccountService edits a logged-in user's own account.
type AccountService struct {
	deps
	store Store
}

func NewAccountService(store Store, opts ...Option) *AccountService {
	return &AccountService{
		deps:  newDeps(opts),
		store: store,
	}
}

// ProfileInput is what a user may change about themselves. An empty
// AvatarProvider keeps the current avatar.
type ProfileInput struct {
	FullName       string
	UserName       string
	AvatarProvider string
}

// UpdateProfile applies in to user and returns the updated user.
func (a *AccountService) UpdateProfile(ctx context.Context, user User, in ProfileInput) (User, Result) {
	fullName := cleanName(in.FullName)
	userName := strings.TrimSpace(in.UserName)

	if err := validator.Apply(
		validator.LenBetween("fullName", fullName, MinFullNameLength, MaxFullNameLength),
		validator.ValidUsername("userName", userName, MinUserNameLength, MaxUserNameLength),
	); err != nil {
		return user, resultInvalid(validator.ExtractValidationErrors(err).First())
	}

	update := ProfileUpdate{
		FullName:       fullName,
		UserName:       userName,
		LowerUserName:  strings.ToLower(userName),
		AvatarURL:      user.AvatarURL,
		AvatarProvider: user.AvatarProvider,
	}

	if update.LowerUserName != user.LowerUserName {
		other, err := a.store.GetUserByUserName(ctx, update.LowerUserName)
		switch {
		case err == nil && other.ID != user.ID:
			return user, resultInvalid(MsgUserNameTaken)
		case err != nil && !errors.Is(err, ErrNotFound):
			a.logger.ErrorContext(ctx, "username lookup failed", logger.UserID(user.ID), logger.Error(err))
			return user, resultStoreError()
		}
	}

	if in.AvatarProvider != "" && in.AvatarProvider != user.AvatarProvider {
		acc, err := a.store.GetUserAuthAccount(ctx, user.ID, in.AvatarProvider)
		switch {
		case errors.Is(err, ErrNotFound):
			return user, resultInvalid(MsgProviderNotLinked)
		case err != nil:
			a.logger.ErrorContext(ctx, "avatar provider lookup failed",
				logger.UserID(user.ID),
				logger.Provider(in.AvatarProvider),
				logger.Error(err),
			)
			return user, resultStoreError()
		}
		update.AvatarURL = acc.AvatarURL
		update.AvatarProvider = acc.ProviderName
	}

	if err := a.store.UpdateUserProfile(ctx, user.ID, update); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return user, resultInvalid(MsgUserNameTaken)
		}
		a.logger.ErrorContext(ctx, "cannot update profile", logger.UserID(user.ID), logger.Error(err))
		return user, resultStoreError()
	}

	user.FullName = update.FullName
	user.UserName = update.UserName
	user.LowerUserName = update.LowerUserName
	user.AvatarURL = update.AvatarURL
	user.AvatarProvider = update.AvatarProvider
	return user, resultOK(MsgProfileUpdated)
}

// LinkedProviders lists the provider accounts attached to the user.
func (a *AccountService) LinkedProviders(ctx context.Context, userID int64) ([]LinkedProvider, error) {
	accounts, err := a.store.ListAuthAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]LinkedProvider, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, LinkedProvider{
			ID:                   acc.ID,
			ProviderName:         acc.ProviderName,
			ProviderAccountID:    acc.ProviderAccountID,
			ProviderAccountEmail: acc.ProviderAccountEmail,
			AvatarURL:            acc.AvatarURL,
		})
	}
	return out, nil
}

// RemovePassword clears the user's password after checking the current one.
// The account stays reachable through its linked providers.
func (a *AccountService) RemovePassword(ctx context.Context, user User, password string) Result {
	if !user.HasPassword() {
		return resultInvalid(MsgNoPassword)
	}

	match, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.ErrorContext(ctx, "stored password hash is unreadable", logger.UserID(user.ID), logger.Error(err))
		return resultStoreError()
	}
	if !match {
		a.charge(ctx, ChargeWrongCredential)
		return resultInvalid(MsgIncorrectPassword)
	}

	if err := a.store.UpdateUserPassword(ctx, user.ID, ""); err != nil {
		a.logger.ErrorContext(ctx, "cannot remove password", logger.UserID(user.ID), logger.Error(err))
		return resultStoreError()
	}
	return resultOK(MsgPasswordRemoved)
}

// checkNewPassword reports the first problem with a new password pair.
func checkNewPassword(password, confirm string) (Result, bool) {
	err := validator.Apply(
		validator.Equal("confirmNewPassword", confirm, password, MsgPasswordsDoNotMatch),
		validator.LenBetween("newPassword", password, MinPasswordLength, MaxPasswordLength),
	)
	if err != nil {
		return resultInvalid(validator.ExtractValidationErrors(err).First()), false
	}
	return Result{}, true
}
