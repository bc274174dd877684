package auth

import "net/http"

// Status classifies the outcome of a controller operation.
type Status string

const (
	StatusOK              Status = "ok"
	StatusInvalid         Status = "invalid"
	StatusUnauthenticated Status = "unauthenticated"
	StatusNotFound        Status = "not_found"
	StatusStoreError      Status = "store_error"
)

// HTTPStatus maps s onto the response code.
func (s Status) HTTPStatus() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusInvalid, StatusNotFound:
		return http.StatusBadRequest
	case StatusUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Result is what every controller operation returns. Message is safe to
// show to the client.
type Result struct {
	Status  Status
	Message string
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// AuthResult is a sign-in or sign-up outcome. Cookie is set only on success.
type AuthResult struct {
	Result
	Cookie SessionCookie
}

func resultOK(msg string) Result      { return Result{Status: StatusOK, Message: msg} }
func resultInvalid(msg string) Result { return Result{Status: StatusInvalid, Message: msg} }
func resultStoreError() Result        { return Result{Status: StatusStoreError, Message: MsgInternalError} }

// Client-facing messages.
const (
	MsgInternalError         = "Internal server error"
	MsgInvalidRequest        = "Invalid request"
	MsgNotLoggedIn           = "You're not logged in"
	MsgInvalidOrExpiredCode  = "Invalid or expired code"
	MsgInvalidProfile        = "Invalid profile data received from the auth provider, most likely the code provided was invalid"
	MsgInvalidCredentials    = "Invalid email or password"
	MsgAccountExists         = "A user already exists with this account, try to login instead"
	MsgEmailExists           = "A user already exists with the email you are trying to sign up with."
	MsgPasswordsDoNotMatch   = "Passwords do not match"
	MsgConfirmationSent      = "You should receive a confirmation email shortly."
	MsgCancelled             = "Cancelled successfully"
	MsgPasswordAdded         = "Successfully added the new password"
	MsgPasswordChanged       = "Password changed successfully"
	MsgPasswordAlreadySet    = "Your account already has a password"
	MsgNoPassword            = "Your account does not have a password"
	MsgIncorrectPassword     = "Incorrect password"
	MsgPasswordRemoved       = "Account password removed successfully"
	MsgAccountDeleted        = "Account deleted successfully"
	MsgProfileUpdated        = "Profile updated successfully"
	MsgUserNameTaken         = "This username is already taken"
	MsgProviderNotLinked     = "The selected avatar provider is not linked to your account"
	MsgSessionLoggedOut      = "Session logged out successfully"
	MsgSessionLogoutFailed   = "Unable to log out the session, it does not exist or is not yours"
	MsgSessionRevoked        = "Session revoked successfully"
	MsgUnknownProvider       = "Unknown auth provider"
	MsgAlreadyLoggedIn       = "You are already logged in"
	MsgStateMismatch         = "Invalid or expired OAuth state"
	MsgRateLimited           = "Rate limit exceeded, please try again after 5 minutes"
	msgSignInNotLinkedFmt    = "The %s provider with email: '%s' is not linked with any UserAccount. Please try signing in with a linked auth provider"
	msgSignInNoAccountFmt    = "No %s AuthAccount exists with email: '%s' nor does a User exist with this email address"
	msgSignInSuccessFmt      = "Successfuly logged in using %s as %s"
	msgSignUpSuccessFmt      = "Successfully signed up using %s as %s"
	msgCredentialSignInOKFmt = "Successfully logged in as %s"
)
