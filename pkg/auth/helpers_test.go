package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/device"
)

const testValidity = 720 * time.Hour

type testEnv struct {
	store    *MemoryStore
	notifier *recordingNotifier
	charger  *recordingCharger
	clock    *fakeClock
	hasher   Hasher
}

func newTestEnv() *testEnv {
	e := &testEnv{
		store:    NewMemoryStore(),
		notifier: &recordingNotifier{},
		charger:  &recordingCharger{},
		clock:    newFakeClock(),
		hasher:   fastHasher(),
	}
	e.store.now = e.clock.Now
	return e
}

func (e *testEnv) opts() []Option {
	return []Option{
		WithNotifier(e.notifier),
		WithCharger(e.charger),
		WithHasher(e.hasher),
		WithClock(e.clock.Now),
	}
}

func (e *testEnv) sessions() *SessionManager {
	return NewSessionManager(e.store, testValidity, e.opts()...)
}

func (e *testEnv) createUser(t *testing.T, email string, mutate ...func(*User)) User {
	t.Helper()

	name, _, _ := strings.Cut(email, "@")
	u := User{
		Email:         email,
		FullName:      "User " + name,
		UserName:      name,
		LowerUserName: strings.ToLower(name),
		Role:          RoleUser,
		Settings:      Settings{SignInAlerts: true},
	}
	for _, fn := range mutate {
		fn(&u)
	}
	require.NoError(t, e.store.CreateUser(context.Background(), &u))
	return u
}

func (e *testEnv) withPassword(t *testing.T, password string) func(*User) {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	return func(u *User) { u.PasswordHash = hash }
}

func (e *testEnv) linkAccount(t *testing.T, userID int64, provider, accountID, email string) AuthAccount {
	t.Helper()

	a := AuthAccount{
		UserID:               userID,
		ProviderName:         provider,
		ProviderAccountID:    accountID,
		ProviderAccountEmail: email,
		AvatarURL:            "https://avatars.example/" + provider + "/" + accountID,
	}
	require.NoError(t, e.store.CreateAuthAccount(context.Background(), &a))
	return a
}

func deviceFrom(ip string) device.Details {
	return device.Details{
		Browser:   "Firefox",
		OSName:    "Linux",
		OSVersion: "x86_64",
		IP:        ip,
		City:      "Berlin BE",
		Country:   "DE",
	}
}
