package token

import (
	"strconv"
	"strings"
)

const (
	// SuffixLength is the length of the random tail of every structured code.
	SuffixLength = 24

	revokePrefix = "revoke-session"
)

// ConfirmationCode returns "{actionType}-{userID}-{random}".
func ConfirmationCode(actionType string, userID int64) (string, error) {
	return compose(actionType, userID)
}

// RevokeCode returns "revoke-session-{userID}-{random}".
func RevokeCode(userID int64) (string, error) {
	return compose(revokePrefix, userID)
}

// CSRFState returns "{intent}-{random}".
func CSRFState(intent string) (string, error) {
	suffix, err := String(SuffixLength)
	if err != nil {
		return "", err
	}
	return intent + "-" + suffix, nil
}

// StateIntent extracts the intent from a state produced by CSRFState.
// Intents may contain dashes ("link-provider"), so the split is taken at
// the last dash.
func StateIntent(state string) (string, bool) {
	i := strings.LastIndexByte(state, '-')
	if i <= 0 || len(state)-i-1 != SuffixLength {
		return "", false
	}
	return state[:i], true
}

func compose(prefix string, userID int64) (string, error) {
	suffix, err := String(SuffixLength)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(prefix) + SuffixLength + 22)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(userID, 10))
	b.WriteByte('-')
	b.WriteString(suffix)
	return b.String(), nil
}
