package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/sanitizer"
	"github.com/dmitrymomot/authcore/pkg/token"
)

// ConfirmationEngine issues and consumes emailed action codes for adding a
// password, resetting a password and deleting an account.
//
// Every confirm or cancel validates the code, then claims it by deleting all
// codes of that action for the user and applies its effect. Claim and effect
// share a transaction when the store is a Transactor. Only the request whose
// claim deleted rows succeeds. A code that fails validation is left untouched.
type ConfirmationEngine struct {
	deps
	store   Store
	windows ConfirmationConfig
}

func NewConfirmationEngine(store Store, windows ConfirmationConfig, opts ...Option) *ConfirmationEngine {
	return &ConfirmationEngine{
		deps:    newDeps(opts),
		store:   store,
		windows: windows,
	}
}

// RequestNewPassword emails a code that, once confirmed, sets newPassword on
// an account that has none. The password is hashed before it is stored.
func (e *ConfirmationEngine) RequestNewPassword(ctx context.Context, user User, newPassword, confirmPassword string) Result {
	if res, ok := checkNewPassword(newPassword, confirmPassword); !ok {
		return res
	}
	if user.HasPassword() {
		return resultInvalid(MsgPasswordAlreadySet)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.logger.ErrorContext(ctx, "cannot hash new password", logger.UserID(user.ID), logger.Error(err))
		return resultStoreError()
	}
	return e.issue(ctx, user, ActionConfirmNewPassword, hash)
}

func (e *ConfirmationEngine) ConfirmNewPassword(ctx context.Context, code string) Result {
	c, res := e.validate(ctx, code, ActionConfirmNewPassword)
	if !res.OK() {
		return res
	}
	return e.consume(ctx, c, MsgPasswordAdded, func(ctx context.Context, s Store) error {
		return s.UpdateUserPassword(ctx, c.UserID, c.Data)
	})
}

func (e *ConfirmationEngine) CancelNewPassword(ctx context.Context, code string) Result {
	return e.cancel(ctx, code, ActionConfirmNewPassword)
}

// RequestPasswordChange emails a reset code when email belongs to a user.
// The answer is the same either way; unknown emails are charged instead.
func (e *ConfirmationEngine) RequestPasswordChange(ctx context.Context, email string) Result {
	email = sanitizer.NormalizeEmail(email)

	user, err := e.store.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		e.charge(ctx, ChargeUnknownResetEmail)
		e.logger.InfoContext(ctx, "password reset requested for unknown email",
			logger.Component("confirmation"),
			logger.Event("unknown_reset_email"),
			"email", sanitizer.MaskEmail(email),
		)
		return resultOK(MsgConfirmationSent)
	case err != nil:
		e.logger.ErrorContext(ctx, "password reset lookup failed", logger.Error(err))
		return resultStoreError()
	}
	return e.issue(ctx, user, ActionChangeAccountPassword, "")
}

// SetNewPassword consumes a reset code and replaces the user's password.
func (e *ConfirmationEngine) SetNewPassword(ctx context.Context, code, newPassword, confirmPassword string) Result {
	if res, ok := checkNewPassword(newPassword, confirmPassword); !ok {
		return res
	}

	c, res := e.validate(ctx, code, ActionChangeAccountPassword)
	if !res.OK() {
		return res
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return e.failed(ctx, c, "cannot hash new password", err)
	}
	return e.consume(ctx, c, MsgPasswordChanged, func(ctx context.Context, s Store) error {
		return s.UpdateUserPassword(ctx, c.UserID, hash)
	})
}

func (e *ConfirmationEngine) CancelPasswordChange(ctx context.Context, code string) Result {
	return e.cancel(ctx, code, ActionChangeAccountPassword)
}

func (e *ConfirmationEngine) RequestAccountDeletion(ctx context.Context, user User) Result {
	return e.issue(ctx, user, ActionDeleteUserAccount, "")
}

// ConfirmAccountDeletion deletes the user and, through the store cascade,
// everything it owns. Bad codes are charged to the rate limiter.
func (e *ConfirmationEngine) ConfirmAccountDeletion(ctx context.Context, code string) Result {
	c, res := e.validate(ctx, code, ActionDeleteUserAccount)
	if !res.OK() {
		if res.Status == StatusInvalid {
			e.charge(ctx, ChargeInvalidConfirmationCode)
		}
		return res
	}

	res = e.consume(ctx, c, MsgAccountDeleted, func(ctx context.Context, s Store) error {
		if err := s.DeleteUser(ctx, c.UserID); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if res.Status == StatusInvalid {
		e.charge(ctx, ChargeInvalidConfirmationCode)
	}
	return res
}

func (e *ConfirmationEngine) CancelAccountDeletion(ctx context.Context, code string) Result {
	res := e.cancel(ctx, code, ActionDeleteUserAccount)
	if res.Status == StatusInvalid {
		e.charge(ctx, ChargeInvalidConfirmationCode)
	}
	return res
}

// ActionTypeFromCode reports what a valid code would do, without using it.
func (e *ConfirmationEngine) ActionTypeFromCode(ctx context.Context, code string) (ActionType, Result) {
	if code == "" {
		return "", resultInvalid(MsgInvalidOrExpiredCode)
	}

	c, err := e.store.GetConfirmation(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		return "", resultInvalid(MsgInvalidOrExpiredCode)
	case err != nil:
		e.logger.ErrorContext(ctx, "confirmation lookup failed", logger.Error(err))
		return "", resultStoreError()
	}

	action, known := ParseActionType(string(c.ActionType))
	if !known || !c.ValidAt(e.now(), e.windows.Window(action)) {
		return "", resultInvalid(MsgInvalidOrExpiredCode)
	}
	return action, resultOK("")
}

func (e *ConfirmationEngine) issue(ctx context.Context, user User, action ActionType, data string) Result {
	code, err := token.ConfirmationCode(string(action), user.ID)
	if err != nil {
		e.logger.ErrorContext(ctx, "cannot generate confirmation code", logger.UserID(user.ID), logger.Error(err))
		return resultStoreError()
	}

	c := Confirmation{
		UserID:     user.ID,
		Code:       code,
		ActionType: action,
		Data:       data,
		CreatedAt:  e.now(),
	}
	if err := e.store.CreateConfirmation(ctx, &c); err != nil {
		e.logger.ErrorContext(ctx, "cannot store confirmation code",
			logger.UserID(user.ID),
			logger.ActionType(string(action)),
			logger.Error(err),
		)
		return resultStoreError()
	}

	window := e.windows.Window(action)
	e.tasks.Go(ctx, "confirmation_email", func(ctx context.Context) error {
		return e.notifier.SendConfirmation(ctx, user, c, window)
	})

	e.metrics.Confirmation(string(action), outcomeIssued)
	return resultOK(MsgConfirmationSent)
}

// validate loads code and checks its action and window. Missing, foreign
// and expired codes are indistinguishable to the caller.
func (e *ConfirmationEngine) validate(ctx context.Context, code string, action ActionType) (Confirmation, Result) {
	if code == "" {
		e.metrics.Confirmation(string(action), outcomeRejected)
		return Confirmation{}, resultInvalid(MsgInvalidOrExpiredCode)
	}

	c, err := e.store.GetConfirmation(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		e.metrics.Confirmation(string(action), outcomeRejected)
		return Confirmation{}, resultInvalid(MsgInvalidOrExpiredCode)
	case err != nil:
		e.logger.ErrorContext(ctx, "confirmation lookup failed", logger.ActionType(string(action)), logger.Error(err))
		e.metrics.Confirmation(string(action), outcomeError)
		return Confirmation{}, resultStoreError()
	}

	if c.ActionType != action || !c.ValidAt(e.now(), e.windows.Window(action)) {
		e.metrics.Confirmation(string(action), outcomeRejected)
		return Confirmation{}, resultInvalid(MsgInvalidOrExpiredCode)
	}
	return c, resultOK("")
}

// errCodeClaimed aborts a redemption whose codes another request deleted
// first.
var errCodeClaimed = errors.New("confirmation code already used")

// consume claims c and applies effect. A nil effect only claims.
func (e *ConfirmationEngine) consume(ctx context.Context, c Confirmation, msg string, effect func(context.Context, Store) error) Result {
	err := e.redeem(ctx, c, effect)
	switch {
	case errors.Is(err, errCodeClaimed):
		e.metrics.Confirmation(string(c.ActionType), outcomeRejected)
		return resultInvalid(MsgInvalidOrExpiredCode)
	case err != nil:
		return e.failed(ctx, c, "cannot use confirmation code", err)
	}

	e.metrics.Confirmation(string(c.ActionType), outcomeSuccess)
	e.logger.InfoContext(ctx, "confirmation code used", logger.UserID(c.UserID), logger.ActionType(string(c.ActionType)))
	return resultOK(msg)
}

// redeem deletes every code of c's action for its user and then runs
// effect against the same store. Zero deleted rows means the codes were
// already used, and the transaction is rolled back.
func (e *ConfirmationEngine) redeem(ctx context.Context, c Confirmation, effect func(context.Context, Store) error) error {
	run := func(s Store) error {
		n, err := s.DeleteConfirmations(ctx, c.UserID, c.ActionType)
		if err != nil {
			return fmt.Errorf("delete used confirmation codes: %w", err)
		}
		if n == 0 {
			return errCodeClaimed
		}
		if effect == nil {
			return nil
		}
		return effect(ctx, s)
	}

	if tx, ok := e.store.(Transactor); ok {
		return tx.InTx(ctx, run)
	}
	return run(e.store)
}

func (e *ConfirmationEngine) cancel(ctx context.Context, code string, action ActionType) Result {
	c, res := e.validate(ctx, code, action)
	if !res.OK() {
		return res
	}
	return e.consume(ctx, c, MsgCancelled, nil)
}

func (e *ConfirmationEngine) failed(ctx context.Context, c Confirmation, msg string, err error) Result {
	e.logger.ErrorContext(ctx, msg,
		logger.Component("confirmation"),
		logger.UserID(c.UserID),
		logger.ActionType(string(c.ActionType)),
		logger.Error(err),
	)
	e.metrics.Confirmation(string(c.ActionType), outcomeError)
	return resultStoreError()
}

// Wait blocks until queued confirmation emails have been handed off.
func (e *ConfirmationEngine) Wait() {
	e.tasks.Wait()
}
