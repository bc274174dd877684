package auth

import "time"

// Provider names. ProviderCredential only ever appears on sessions.
const (
	ProviderGithub     = "github"
	ProviderGitlab     = "gitlab"
	ProviderDiscord    = "discord"
	ProviderGoogle     = "google"
	ProviderCredential = "credential"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleCreator   Role = "creator"
	RoleUser      Role = "user"
)

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionUnverified SessionStatus = "unverified"
)

// ActionType identifies what a confirmation code authorises.
type ActionType string

const (
	ActionConfirmNewPassword    ActionType = "CONFIRM_NEW_PASSWORD"
	ActionChangeAccountPassword ActionType = "CHANGE_ACCOUNT_PASSWORD"
	ActionDeleteUserAccount     ActionType = "DELETE_USER_ACCOUNT"
)

// ParseActionType accepts only the known action types.
func ParseActionType(s string) (ActionType, bool) {
	switch a := ActionType(s); a {
	case ActionConfirmNewPassword, ActionChangeAccountPassword, ActionDeleteUserAccount:
		return a, true
	}
	return "", false
}

// Intent is the purpose of an OAuth round trip, carried in the CSRF state.
type Intent string

const (
	IntentSignIn Intent = "signin"
	IntentSignUp Intent = "signup"
)

func ParseIntent(s string) (Intent, bool) {
	switch i := Intent(s); i {
	case IntentSignIn, IntentSignUp:
		return i, true
	}
	return "", false
}

type Settings struct {
	SignInAlerts bool `json:"signInAlerts"`
}

type User struct {
	ID             int64
	Email          string
	FullName       string
	UserName       string
	LowerUserName  string
	PasswordHash   string
	AvatarURL      string
	AvatarProvider string
	Role           Role
	Settings       Settings
	CreatedAt      time.Time
}

// HasPassword reports whether the user can sign in with credentials.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

type AuthAccount struct {
	ID                   int64
	UserID               int64
	ProviderName         string
	ProviderAccountID    string
	ProviderAccountEmail string
	AvatarURL            string
	AccessToken          string
	RefreshToken         string
	TokenType            string
	Scope                string
	CreatedAt            time.Time
}

type Session struct {
	ID           int64
	UserID       int64
	Token        string
	ProviderName string
	Status       SessionStatus
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastActiveAt time.Time
	RevokeCode   string
	OS           string
	Browser      string
	IP           string
	City         string
	Country      string
}

// Valid reports whether the session may authenticate a request at now.
func (s Session) Valid(now time.Time) bool {
	return s.Status == SessionActive && now.Before(s.ExpiresAt)
}

// Location renders "{city} - {country}" for alert emails, or "" when the
// lookup produced nothing.
func (s Session) Location() string {
	if s.City == "" && s.Country == "" {
		return ""
	}
	return s.City + " - " + s.Country
}

func (s Session) cookie() SessionCookie {
	return SessionCookie{UserID: s.UserID, SessionID: s.ID, SessionToken: s.Token}
}

// Confirmation is a single-use, time-boxed action code.
type Confirmation struct {
	ID         int64
	UserID     int64
	Code       string
	ActionType ActionType
	Data       string
	CreatedAt  time.Time
}

// ValidAt reports whether the code is still usable at now given its window.
// The window edge itself is inclusive.
func (c Confirmation) ValidAt(now time.Time, window time.Duration) bool {
	return !now.After(c.CreatedAt.Add(window))
}

// SessionCookie is the payload of the auth cookie.
type SessionCookie struct {
	UserID       int64  `json:"userId"`
	SessionID    int64  `json:"sessionId"`
	SessionToken string `json:"sessionToken"`
}

func (c SessionCookie) complete() bool {
	return c.UserID > 0 && c.SessionID > 0 && c.SessionToken != ""
}

// LoggedInUser is the user behind an authenticated request.
type LoggedInUser struct {
	User
	SessionID    int64
	SessionToken string
}

// Profile is the normalised identity returned by an OAuth provider.
type Profile struct {
	Provider          string
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	Name              string
	AvatarURL         string
	AccessToken       string
	RefreshToken      string
	TokenType         string
	Scope             string
}

func (p Profile) complete() bool {
	return p.Provider != "" && p.ProviderAccountID != "" && p.Email != "" && p.EmailVerified
}

// SessionInfo is a session as shown to its owner, without secrets.
type SessionInfo struct {
	ID           int64     `json:"id"`
	ProviderName string    `json:"providerName"`
	CreatedAt    time.Time `json:"dateCreated"`
	LastActiveAt time.Time `json:"dateLastActive"`
	ExpiresAt    time.Time `json:"dateExpires"`
	OS           string    `json:"os"`
	Browser      string    `json:"browserName"`
	IP           string    `json:"ipAddress"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Current      bool      `json:"isCurrent"`
}

// LinkedProvider is an AuthAccount as shown to its owner, without tokens.
type LinkedProvider struct {
	ID                   int64  `json:"id"`
	ProviderName         string `json:"providerName"`
	ProviderAccountID    string `json:"providerAccountId"`
	ProviderAccountEmail string `json:"providerAccountEmail"`
	AvatarURL            string `json:"avatarImageUrl"`
}
