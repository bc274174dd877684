package auth

import "errors"

// Store errors.
var (
	ErrNotFound  = errors.New("auth.not_found")
	ErrDuplicate = errors.New("auth.duplicate")
)

// Provider errors.
var (
	ErrUnknownProvider = errors.New("auth.unknown_provider")
	ErrInvalidCode     = errors.New("auth.invalid_oauth_code")
	ErrProfileFetch    = errors.New("auth.profile_fetch_failed")
	ErrNoVerifiedEmail = errors.New("auth.no_verified_email")
)

// Session errors.
var (
	ErrStateMismatch   = errors.New("auth.state_mismatch")
	ErrSessionCreation = errors.New("auth.session_creation_failed")
)

// Hashing errors.
var (
	ErrHashFailed  = errors.New("auth.hash_failed")
	ErrInvalidHash = errors.New("auth.invalid_hash")
	ErrUnknownHash = errors.New("auth.unknown_hash_format")
)
