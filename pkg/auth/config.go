package auth

import "time"

// Config holds the session and cookie settings of the auth core.
type Config struct {
	SessionValidity  time.Duration `env:"SESSION_VALIDITY" envDefault:"720h"`
	FrontendURL      string        `env:"FRONTEND_URL,required"`
	OAuthRedirectURI string        `env:"OAUTH_REDIRECT_URI,required"`
	AuthCookieName   string        `env:"AUTH_COOKIE_NAME" envDefault:"auth-token"`
	StateCookieName  string        `env:"CSRF_STATE_COOKIE_NAME" envDefault:"csrfState"`
	StateCookieTTL   time.Duration `env:"CSRF_STATE_TTL" envDefault:"10m"`
	GuestCookieName  string        `env:"GUEST_COOKIE_NAME" envDefault:"guest-session"`
	GuestTokenLength int           `env:"GUEST_TOKEN_LENGTH" envDefault:"32"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		SessionValidity:  720 * time.Hour,
		AuthCookieName:   "auth-token",
		StateCookieName:  "csrfState",
		StateCookieTTL:   10 * time.Minute,
		GuestCookieName:  "guest-session",
		GuestTokenLength: 32,
	}
}

// ConfirmationConfig holds the validity window of each action type.
type ConfirmationConfig struct {
	ConfirmNewPassword    time.Duration `env:"CONFIRM_NEW_PASSWORD_VALIDITY" envDefault:"1h"`
	ChangeAccountPassword time.Duration `env:"CHANGE_ACCOUNT_PASSWORD_VALIDITY" envDefault:"1h"`
	DeleteUserAccount     time.Duration `env:"DELETE_USER_ACCOUNT_VALIDITY" envDefault:"1h"`
}

func DefaultConfirmationConfig() ConfirmationConfig {
	return ConfirmationConfig{
		ConfirmNewPassword:    time.Hour,
		ChangeAccountPassword: time.Hour,
		DeleteUserAccount:     time.Hour,
	}
}

// Window returns the validity window of action, zero for unknown actions.
func (c ConfirmationConfig) Window(action ActionType) time.Duration {
	switch action {
	case ActionConfirmNewPassword:
		return c.ConfirmNewPassword
	case ActionChangeAccountPassword:
		return c.ChangeAccountPassword
	case ActionDeleteUserAccount:
		return c.DeleteUserAccount
	}
	return 0
}

// Rate-limit charge reasons.
const (
	ChargeWrongCredential         = "wrong_credential"
	ChargeInvalidRevokeCode       = "invalid_revoke_code"
	ChargeInvalidConfirmationCode = "invalid_confirmation_code"
	ChargeUnknownResetEmail       = "unknown_reset_email"
	ChargeProtectedRouteAccess    = "protected_route_access"
	ChargeInvalidData             = "invalid_data"
)

// ChargeConfig holds the rate-limit weight of each abuse signal.
type ChargeConfig struct {
	WrongCredential         int `env:"CHARGE_WRONG_CREDENTIAL" envDefault:"5"`
	InvalidRevokeCode       int `env:"CHARGE_INVALID_REVOKE_CODE" envDefault:"10"`
	InvalidConfirmationCode int `env:"CHARGE_INVALID_CONFIRMATION_CODE" envDefault:"10"`
	UnknownResetEmail       int `env:"CHARGE_UNKNOWN_RESET_EMAIL" envDefault:"5"`
	ProtectedRouteAccess    int `env:"CHARGE_PROTECTED_ROUTE_ACCESS" envDefault:"5"`
	InvalidData             int `env:"CHARGE_INVALID_DATA" envDefault:"5"`
}

func DefaultChargeConfig() ChargeConfig {
	return ChargeConfig{
		WrongCredential:         5,
		InvalidRevokeCode:       10,
		InvalidConfirmationCode: 10,
		UnknownResetEmail:       5,
		ProtectedRouteAccess:    5,
		InvalidData:             5,
	}
}

// Weight returns the weight of reason, or 1 for reasons it does not know.
func (c ChargeConfig) Weight(reason string) int {
	switch reason {
	case ChargeWrongCredential:
		return c.WrongCredential
	case ChargeInvalidRevokeCode:
		return c.InvalidRevokeCode
	case ChargeInvalidConfirmationCode:
		return c.InvalidConfirmationCode
	case ChargeUnknownResetEmail:
		return c.UnknownResetEmail
	case ChargeProtectedRouteAccess:
		return c.ProtectedRouteAccess
	case ChargeInvalidData:
		return c.InvalidData
	}
	return 1
}

// ProviderConfig holds OAuth client credentials. Load it with a provider
// prefix, e.g. config.LoadWithPrefix(&cfg, "GITHUB_") reads GITHUB_ID.
type ProviderConfig struct {
	ClientID     string `env:"ID"`
	ClientSecret string `env:"SECRET"`
}

// Enabled reports whether both credentials are present.
func (c ProviderConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
