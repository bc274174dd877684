package auth

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmationFixture() (*testEnv, *ConfirmationEngine) {
	env := newTestEnv()
	return env, NewConfirmationEngine(env.store, DefaultConfirmationConfig(), env.opts()...)
}

// lastCode returns the code of the most recent confirmation email.
func lastCode(t *testing.T, env *testEnv, e *ConfirmationEngine) Confirmation {
	t.Helper()

	e.Wait()
	sent := env.notifier.Confirmations()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1]
}

func seedConfirmation(t *testing.T, env *testEnv, userID int64, action ActionType, code string) Confirmation {
	t.Helper()

	c := Confirmation{UserID: userID, Code: code, ActionType: action, CreatedAt: env.clock.Now()}
	require.NoError(t, env.store.CreateConfirmation(context.Background(), &c))
	return c
}

func TestConfirmationEngineNewPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("request and confirm", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com")

		res := e.RequestNewPassword(ctx, user, "brand-new-pass", "brand-new-pass")
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgConfirmationSent, res.Message)

		c := lastCode(t, env, e)
		assert.Equal(t, ActionConfirmNewPassword, c.ActionType)
		assert.True(t, strings.HasPrefix(c.Code, string(ActionConfirmNewPassword)+"-"+strconv.FormatInt(user.ID, 10)+"-"))
		assert.NotContains(t, c.Data, "brand-new-pass")

		res = e.ConfirmNewPassword(ctx, c.Code)
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgPasswordAdded, res.Message)

		stored, err := env.store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		match, err := env.hasher.Verify("brand-new-pass", stored.PasswordHash)
		require.NoError(t, err)
		assert.True(t, match)

		res = e.ConfirmNewPassword(ctx, c.Code)
		assert.Equal(t, StatusInvalid, res.Status)
		assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)
	})

	t.Run("rejected requests", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		plain := env.createUser(t, "plain@example.com")
		withPw := env.createUser(t, "haspw@example.com", env.withPassword(t, "current-pass"))

		tests := []struct {
			name    string
			user    User
			pw, cpw string
			want    string
		}{
			{"mismatch", plain, "brand-new-pass", "brand-new-pasS", MsgPasswordsDoNotMatch},
			{"too short", plain, "short", "short", "newPassword must be between 8 and 64 characters"},
			{"already set", withPw, "brand-new-pass", "brand-new-pass", MsgPasswordAlreadySet},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := e.RequestNewPassword(ctx, tt.user, tt.pw, tt.cpw)
				assert.Equal(t, StatusInvalid, res.Status)
				assert.Equal(t, tt.want, res.Message)
			})
		}
		e.Wait()
		assert.Empty(t, env.notifier.Confirmations())
	})

	t.Run("cancel removes every pending code", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com")
		first := seedConfirmation(t, env, user.ID, ActionConfirmNewPassword, "CONFIRM_NEW_PASSWORD-1-a")
		second := seedConfirmation(t, env, user.ID, ActionConfirmNewPassword, "CONFIRM_NEW_PASSWORD-1-b")
		other := seedConfirmation(t, env, user.ID, ActionDeleteUserAccount, "DELETE_USER_ACCOUNT-1-c")

		res := e.CancelNewPassword(ctx, first.Code)
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgCancelled, res.Message)

		_, err := env.store.GetConfirmation(ctx, second.Code)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = env.store.GetConfirmation(ctx, other.Code)
		assert.NoError(t, err)
	})
}

func TestConfirmationEngineWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env, e := newConfirmationFixture()
	user := env.createUser(t, "ann@example.com")

	edge := seedConfirmation(t, env, user.ID, ActionConfirmNewPassword, "CONFIRM_NEW_PASSWORD-edge")
	late := seedConfirmation(t, env, user.ID, ActionChangeAccountPassword, "CHANGE_ACCOUNT_PASSWORD-late")

	env.clock.Advance(time.Hour)

	action, res := e.ActionTypeFromCode(ctx, edge.Code)
	require.True(t, res.OK(), "valid at the window edge")
	assert.Equal(t, ActionConfirmNewPassword, action)

	env.clock.Advance(time.Nanosecond)

	_, res = e.ActionTypeFromCode(ctx, late.Code)
	assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)

	res = e.SetNewPassword(ctx, late.Code, "brand-new-pass", "brand-new-pass")
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)

	_, err := env.store.GetConfirmation(ctx, late.Code)
	assert.NoError(t, err, "failed validation keeps the code")
}

func TestConfirmationEngineActionTypeFromCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env, e := newConfirmationFixture()
	user := env.createUser(t, "ann@example.com")
	c := seedConfirmation(t, env, user.ID, ActionDeleteUserAccount, "DELETE_USER_ACCOUNT-x")

	for range 2 {
		action, res := e.ActionTypeFromCode(ctx, c.Code)
		require.True(t, res.OK())
		assert.Equal(t, ActionDeleteUserAccount, action)
	}

	_, res := e.ActionTypeFromCode(ctx, "")
	assert.Equal(t, StatusInvalid, res.Status)
	_, res = e.ActionTypeFromCode(ctx, "missing")
	assert.Equal(t, StatusInvalid, res.Status)
}

func TestConfirmationEnginePasswordChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown email looks the same", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()

		res := e.RequestPasswordChange(ctx, "nobody@example.com")
		assert.True(t, res.OK())
		assert.Equal(t, MsgConfirmationSent, res.Message)
		e.Wait()
		assert.Empty(t, env.notifier.Confirmations())
		assert.Equal(t, []string{ChargeUnknownResetEmail}, env.charger.Reasons())
	})

	t.Run("reset and sign in", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com", env.withPassword(t, "forgotten-pass"))

		res := e.RequestPasswordChange(ctx, "ANN@example.com")
		require.True(t, res.OK())
		c := lastCode(t, env, e)
		assert.Equal(t, ActionChangeAccountPassword, c.ActionType)
		assert.Equal(t, user.ID, c.UserID)

		res = e.SetNewPassword(ctx, c.Code, "replacement-1", "replacement-2")
		assert.Equal(t, MsgPasswordsDoNotMatch, res.Message)
		_, err := env.store.GetConfirmation(ctx, c.Code)
		require.NoError(t, err)

		res = e.SetNewPassword(ctx, c.Code, "replacement-1", "replacement-1")
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgPasswordChanged, res.Message)

		creds := NewCredentialController(env.store, env.sessions(), env.opts()...)
		assert.True(t, creds.SignIn(ctx, "ann@example.com", "replacement-1", deviceFrom("192.0.2.1")).OK())
		assert.False(t, creds.SignIn(ctx, "ann@example.com", "forgotten-pass", deviceFrom("192.0.2.1")).OK())
	})

	t.Run("code for another action", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com")
		c := seedConfirmation(t, env, user.ID, ActionDeleteUserAccount, "DELETE_USER_ACCOUNT-1-z")

		res := e.SetNewPassword(ctx, c.Code, "replacement-1", "replacement-1")
		assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)
		res = e.CancelPasswordChange(ctx, c.Code)
		assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)

		_, err := env.store.GetUserByID(ctx, user.ID)
		assert.NoError(t, err)
	})
}

func TestConfirmationEngineAccountDeletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("confirm deletes everything", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com")
		env.linkAccount(t, user.ID, ProviderGithub, "1", "ann@example.com")
		_, err := env.sessions().Create(ctx, CreateSessionParams{User: user, Provider: ProviderGithub, FirstSignIn: true, Device: deviceFrom("192.0.2.1")})
		require.NoError(t, err)

		require.True(t, e.RequestAccountDeletion(ctx, user).OK())
		c := lastCode(t, env, e)

		res := e.ConfirmAccountDeletion(ctx, c.Code)
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgAccountDeleted, res.Message)

		_, err = env.store.GetUserByID(ctx, user.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		sessions, err := env.store.ListSessions(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, sessions)
		accounts, err := env.store.ListAuthAccounts(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, accounts)
		assert.Empty(t, env.charger.Reasons())
	})

	t.Run("bad codes are charged", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()

		assert.Equal(t, StatusInvalid, e.ConfirmAccountDeletion(ctx, "nope").Status)
		assert.Equal(t, StatusInvalid, e.CancelAccountDeletion(ctx, "").Status)
		assert.Equal(t, []string{ChargeInvalidConfirmationCode, ChargeInvalidConfirmationCode}, env.charger.Reasons())
	})

	t.Run("cancel keeps the account", func(t *testing.T) {
		t.Parallel()

		env, e := newConfirmationFixture()
		user := env.createUser(t, "ann@example.com")
		require.True(t, e.RequestAccountDeletion(ctx, user).OK())
		c := lastCode(t, env, e)

		require.True(t, e.CancelAccountDeletion(ctx, c.Code).OK())
		assert.Equal(t, StatusInvalid, e.ConfirmAccountDeletion(ctx, c.Code).Status)

		_, err := env.store.GetUserByID(ctx, user.ID)
		assert.NoError(t, err)
	})
}

// lockstepStore holds every GetConfirmation call until the given number of
// callers have loaded their code.
type lockstepStore struct {
	*MemoryStore
	loaded sync.WaitGroup
}

func newLockstepStore(store *MemoryStore, callers int) *lockstepStore {
	s := &lockstepStore{MemoryStore: store}
	s.loaded.Add(callers)
	return s
}

func (s *lockstepStore) GetConfirmation(ctx context.Context, code string) (Confirmation, error) {
	c, err := s.MemoryStore.GetConfirmation(ctx, code)
	s.loaded.Done()
	s.loaded.Wait()
	return c, err
}

// drainedStore reports every code as already deleted and records the error
// each transaction ended with.
type drainedStore struct {
	*MemoryStore
	mu     sync.Mutex
	txErrs []error
}

func (s *drainedStore) DeleteConfirmations(context.Context, int64, ActionType) (int64, error) {
	return 0, nil
}

func (s *drainedStore) InTx(_ context.Context, fn func(Store) error) error {
	err := fn(s)
	s.mu.Lock()
	s.txErrs = append(s.txErrs, err)
	s.mu.Unlock()
	return err
}

func TestConfirmationEngineSingleUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("concurrent resets", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		user := env.createUser(t, "ann@example.com", env.withPassword(t, "forgotten-pass"))
		c := seedConfirmation(t, env, user.ID, ActionChangeAccountPassword, "CHANGE_ACCOUNT_PASSWORD-1-a")

		e := NewConfirmationEngine(newLockstepStore(env.store, 2), DefaultConfirmationConfig(), env.opts()...)

		passwords := []string{"replacement-1", "replacement-2"}
		results := make([]Result, len(passwords))
		var wg sync.WaitGroup
		for i, pw := range passwords {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = e.SetNewPassword(ctx, c.Code, pw, pw)
			}()
		}
		wg.Wait()

		var ok, invalid int
		for _, res := range results {
			switch {
			case res.OK():
				ok++
				assert.Equal(t, MsgPasswordChanged, res.Message)
			case res.Status == StatusInvalid:
				invalid++
				assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, invalid)

		stored, err := env.store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		matched := 0
		for _, pw := range passwords {
			ok, err := env.hasher.Verify(pw, stored.PasswordHash)
			require.NoError(t, err)
			if ok {
				matched++
			}
		}
		assert.Equal(t, 1, matched)
	})

	t.Run("concurrent deletion confirm and cancel", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		user := env.createUser(t, "ann@example.com")
		c := seedConfirmation(t, env, user.ID, ActionDeleteUserAccount, "DELETE_USER_ACCOUNT-1-a")

		e := NewConfirmationEngine(newLockstepStore(env.store, 2), DefaultConfirmationConfig(), env.opts()...)

		var confirmed, cancelled Result
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			confirmed = e.ConfirmAccountDeletion(ctx, c.Code)
		}()
		go func() {
			defer wg.Done()
			cancelled = e.CancelAccountDeletion(ctx, c.Code)
		}()
		wg.Wait()

		assert.NotEqual(t, confirmed.OK(), cancelled.OK())
		_, err := env.store.GetUserByID(ctx, user.ID)
		if confirmed.OK() {
			assert.ErrorIs(t, err, ErrNotFound)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, StatusInvalid, confirmed.Status)
		}
		assert.Equal(t, []string{ChargeInvalidConfirmationCode}, env.charger.Reasons())
	})

	t.Run("claim finding no codes rolls back", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		user := env.createUser(t, "ann@example.com", env.withPassword(t, "forgotten-pass"))
		c := seedConfirmation(t, env, user.ID, ActionChangeAccountPassword, "CHANGE_ACCOUNT_PASSWORD-1-b")

		store := &drainedStore{MemoryStore: env.store}
		e := NewConfirmationEngine(store, DefaultConfirmationConfig(), env.opts()...)

		res := e.SetNewPassword(ctx, c.Code, "replacement-1", "replacement-1")
		assert.Equal(t, StatusInvalid, res.Status)
		assert.Equal(t, MsgInvalidOrExpiredCode, res.Message)

		require.Len(t, store.txErrs, 1)
		assert.ErrorIs(t, store.txErrs[0], errCodeClaimed)

		stored, err := env.store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		ok, err := env.hasher.Verify("forgotten-pass", stored.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
