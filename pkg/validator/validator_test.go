package validator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("email", "a@b.io"),
			validator.ValidEmail("email", "a@b.io"),
			validator.LenBetween("password", "hunter22", 8, 64),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.ValidEmail("email", "nope"),
			validator.LenBetween("password", "short", 8, 64),
			validator.Equal("confirmNewPassword", "a", "b", "Passwords do not match"),
		)
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		ve := validator.ExtractValidationErrors(err)
		assert.Len(t, ve, 3)
		assert.True(t, ve.Has("email"))
		assert.True(t, ve.Has("password"))
		assert.Equal(t, "email must be a valid email address", ve.First())
		assert.Contains(t, ve.Error(), "Passwords do not match")
	})

	t.Run("wrapped errors are still detected", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("bind: %w", validator.Apply(validator.Required("code", " ")))
		assert.True(t, validator.IsValidationError(err))
		assert.Nil(t, validator.ExtractValidationErrors(fmt.Errorf("plain")))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.io", "john.doe+x@example.co.uk"}
	invalid := []string{"", "a@b", "Name <a@b.io>", "a@.b.io", "a@b..io", "@b.io"}

	for _, v := range valid {
		assert.True(t, validator.ValidEmail("email", v).Check(), v)
	}
	for _, v := range invalid {
		assert.False(t, validator.ValidEmail("email", v).Check(), v)
	}
}

func TestLenBetweenCountsRunes(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.LenBetween("fullName", "Zoë", 3, 3).Check())
	assert.False(t, validator.LenBetween("fullName", "Zo", 3, 10).Check())
}

func TestValidUsername(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.ValidUsername("userName", "jane_doe-1.x", 3, 32).Check())
	assert.False(t, validator.ValidUsername("userName", "ja", 3, 32).Check())
	assert.False(t, validator.ValidUsername("userName", "jane doe", 3, 32).Check())
}

func TestOneOf(t *testing.T) {
	t.Parallel()

	r := validator.OneOf("provider", "github", []string{"github", "google"})
	assert.True(t, r.Check())
	r = validator.OneOf("provider", "myspace", []string{"github", "google"})
	assert.False(t, r.Check())
	assert.Equal(t, "provider must be one of: github, google", r.Error.Message)
}
