package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/token"
)

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{1, 24, 30, 32, 100} {
			s, err := token.String(n)
			require.NoError(t, err)
			assert.Len(t, s, n)
			assert.Regexp(t, `^[a-zA-Z0-9]+$`, s)
		}
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		t.Parallel()
		_, err := token.String(0)
		assert.ErrorIs(t, err, token.ErrInvalidLength)
		_, err = token.String(-3)
		assert.ErrorIs(t, err, token.ErrInvalidLength)
	})

	t.Run("no collisions across 10k session tokens", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]struct{}, 10_000)
		for range 10_000 {
			s, err := token.String(30)
			require.NoError(t, err)
			_, dup := seen[s]
			require.False(t, dup, "duplicate token %q", s)
			seen[s] = struct{}{}
		}
	})
}

func TestConfirmationCode(t *testing.T) {
	t.Parallel()

	code, err := token.ConfirmationCode("CONFIRM_NEW_PASSWORD", 42)
	require.NoError(t, err)
	assert.Regexp(t, `^CONFIRM_NEW_PASSWORD-42-[a-zA-Z0-9]{24}$`, code)
}

func TestRevokeCode(t *testing.T) {
	t.Parallel()

	code, err := token.RevokeCode(7)
	require.NoError(t, err)
	assert.Regexp(t, `^revoke-session-7-[a-zA-Z0-9]{24}$`, code)
}

func TestCSRFState(t *testing.T) {
	t.Parallel()

	for _, intent := range []string{"signin", "signup", "link-provider"} {
		t.Run(intent, func(t *testing.T) {
			t.Parallel()
			state, err := token.CSRFState(intent)
			require.NoError(t, err)
			assert.Len(t, state, len(intent)+1+token.SuffixLength)

			got, ok := token.StateIntent(state)
			require.True(t, ok)
			assert.Equal(t, intent, got)
		})
	}

	t.Run("malformed states", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "signin", "-abc", "signin-short"} {
			_, ok := token.StateIntent(s)
			assert.False(t, ok, s)
		}
	})
}
