package token

import "errors"

var (
	ErrGeneration    = errors.New("token.generation_failed")
	ErrInvalidLength = errors.New("token.invalid_length")
)
