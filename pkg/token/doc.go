// Package token produces unguessable random strings and the structured codes
// built on top of them.
//
// All randomness comes from crypto/rand. Strings are drawn from a 62-symbol
// alphanumeric alphabet using rejection sampling so every symbol is equally
// likely.
//
// Code formats:
//
//	{ACTION_TYPE}-{userID}-{24 random}   confirmation codes
//	revoke-session-{userID}-{24 random}  session revoke codes
//	{intent}-{24 random}                 OAuth CSRF state
//
// # Usage
//
//	import "github.com/dmitrymomot/authcore/pkg/token"
//
//	sessionToken, err := token.String(30)
//	code, err := token.ConfirmationCode("DELETE_USER_ACCOUNT", 42)
//	state, err := token.CSRFState("signin")
//	intent, ok := token.StateIntent(state)
package token
