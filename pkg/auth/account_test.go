package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountServiceUpdateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	a := NewAccountService(env.store, env.opts()...)

	ann := env.createUser(t, "ann@example.com")
	env.createUser(t, "bob@example.com")
	gitlab := env.linkAccount(t, ann.ID, ProviderGitlab, "77", "ann@example.com")

	t.Run("renames and switches avatar", func(t *testing.T) {
		got, res := a.UpdateProfile(ctx, ann, ProfileInput{
			FullName:       " Ann <b>x</b> Lee ",
			UserName:       "Ann_Lee",
			AvatarProvider: ProviderGitlab,
		})
		require.True(t, res.OK(), res.Message)
		assert.Equal(t, MsgProfileUpdated, res.Message)
		assert.Equal(t, "Ann x Lee", got.FullName)
		assert.Equal(t, "Ann_Lee", got.UserName)
		assert.Equal(t, "ann_lee", got.LowerUserName)
		assert.Equal(t, gitlab.AvatarURL, got.AvatarURL)
		assert.Equal(t, ProviderGitlab, got.AvatarProvider)

		stored, err := env.store.GetUserByID(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, got.LowerUserName, stored.LowerUserName)
		ann = stored
	})

	t.Run("case change of own name", func(t *testing.T) {
		_, res := a.UpdateProfile(ctx, ann, ProfileInput{FullName: ann.FullName, UserName: "ANN_LEE"})
		assert.True(t, res.OK(), res.Message)
	})

	tests := []struct {
		name string
		in   ProfileInput
		want string
	}{
		{"username taken", ProfileInput{FullName: "Ann Lee", UserName: "BOB"}, MsgUserNameTaken},
		{"provider not linked", ProfileInput{FullName: "Ann Lee", UserName: "ann", AvatarProvider: ProviderDiscord}, MsgProviderNotLinked},
		{"short name", ProfileInput{FullName: "<i></i>A", UserName: "ann"}, "fullName must be between 3 and 64 characters"},
		{"bad username", ProfileInput{FullName: "Ann Lee", UserName: "ann lee"}, "userName must be 3-32 characters of letters, numbers, dots, underscores or hyphens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := a.UpdateProfile(ctx, ann, tt.in)
			assert.Equal(t, StatusInvalid, res.Status)
			assert.Equal(t, tt.want, res.Message)
			assert.Equal(t, ann.ID, got.ID)
		})
	}
}

func TestAccountServiceUpdateProfileStoreError(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("GetUserByUserName", mock.Anything, "newname").Return(User{}, errors.New("timeout"))

	a := NewAccountService(store)
	_, res := a.UpdateProfile(context.Background(), User{ID: 1, LowerUserName: "old"}, ProfileInput{FullName: "Ann Lee", UserName: "newname"})
	assert.Equal(t, StatusStoreError, res.Status)
	store.AssertNotCalled(t, "UpdateUserProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountServiceLinkedProviders(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	a := NewAccountService(env.store, env.opts()...)
	user := env.createUser(t, "ann@example.com")
	env.linkAccount(t, user.ID, ProviderGithub, "1", "ann@example.com")
	env.linkAccount(t, user.ID, ProviderGoogle, "2", "ann@gmail.example")

	linked, err := a.LinkedProviders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, ProviderGithub, linked[0].ProviderName)
	assert.Equal(t, "ann@gmail.example", linked[1].ProviderAccountEmail)
}

func TestAccountServiceRemovePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	a := NewAccountService(env.store, env.opts()...)
	user := env.createUser(t, "ann@example.com", env.withPassword(t, "current-pass"))

	res := a.RemovePassword(ctx, user, "wrong-pass")
	assert.Equal(t, MsgIncorrectPassword, res.Message)
	assert.Equal(t, []string{ChargeWrongCredential}, env.charger.Reasons())

	res = a.RemovePassword(ctx, user, "current-pass")
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, MsgPasswordRemoved, res.Message)

	stored, err := env.store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasPassword())

	res = a.RemovePassword(ctx, stored, "current-pass")
	assert.Equal(t, MsgNoPassword, res.Message)
}
