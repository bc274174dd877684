package auth

import (
	"context"
	"time"
)

// Store is everything the auth core persists. Lookups return ErrNotFound
// for absent rows and ErrDuplicate for unique violations. Deleting a user
// must cascade to its accounts, sessions and confirmations.
type Store interface {
	UserStore
	AuthAccountStore
	SessionStore
	ConfirmationStore
}

// Transactor is implemented by stores that can run several calls
// atomically. fn receives a Store bound to the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

type UserStore interface {
	// CreateUser inserts u and sets its ID and CreatedAt.
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// GetUserByUserName matches the lowercase shadow column.
	GetUserByUserName(ctx context.Context, lowerUserName string) (User, error)
	// UpdateUserPassword sets the hash; an empty hash removes the password.
	UpdateUserPassword(ctx context.Context, userID int64, hash string) error
	UpdateUserProfile(ctx context.Context, userID int64, p ProfileUpdate) error
	DeleteUser(ctx context.Context, id int64) error
}

// ProfileUpdate holds the user-editable profile fields.
type ProfileUpdate struct {
	FullName       string
	UserName       string
	LowerUserName  string
	AvatarURL      string
	AvatarProvider string
}

type AuthAccountStore interface {
	// CreateAuthAccount inserts a and sets its ID and CreatedAt.
	CreateAuthAccount(ctx context.Context, a *AuthAccount) error
	// FindAuthAccount matches provider and either the account id or the
	// account email.
	FindAuthAccount(ctx context.Context, provider, accountID, email string) (AuthAccount, error)
	GetUserAuthAccount(ctx context.Context, userID int64, provider string) (AuthAccount, error)
	ListAuthAccounts(ctx context.Context, userID int64) ([]AuthAccount, error)
}

type SessionStore interface {
	// CreateSession inserts s and sets its ID.
	CreateSession(ctx context.Context, s *Session) error
	// TouchSession sets LastActiveAt on the active, unexpired session
	// matching both id and token, and returns it.
	TouchSession(ctx context.Context, id int64, token string, at time.Time) (Session, error)
	ListSessions(ctx context.Context, userID int64) ([]Session, error)
	// DeleteUserSession deletes by (id, userID) in one statement.
	DeleteUserSession(ctx context.Context, userID, sessionID int64) error
	DeleteSessionByRevokeCode(ctx context.Context, code string) error
}

type ConfirmationStore interface {
	// CreateConfirmation inserts c and sets its ID.
	CreateConfirmation(ctx context.Context, c *Confirmation) error
	GetConfirmation(ctx context.Context, code string) (Confirmation, error)
	// DeleteConfirmations removes every code of action for the user and
	// returns how many were removed.
	DeleteConfirmations(ctx context.Context, userID int64, action ActionType) (int64, error)
}
