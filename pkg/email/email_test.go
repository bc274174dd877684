package email_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/email"
)

func validConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}
}

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params email.SendEmailParams
		valid  bool
	}{
		{"valid", email.SendEmailParams{SendTo: "a@b.co", Subject: "hi", BodyText: "x"}, true},
		{"html only", email.SendEmailParams{SendTo: "a@b.co", Subject: "hi", BodyHTML: "<p>x</p>"}, true},
		{"bad recipient", email.SendEmailParams{SendTo: "nope", Subject: "hi", BodyText: "x"}, false},
		{"named recipient", email.SendEmailParams{SendTo: "Ada <a@b.co>", Subject: "hi", BodyText: "x"}, false},
		{"no subject", email.SendEmailParams{SendTo: "a@b.co", Subject: " ", BodyText: "x"}, false},
		{"no body", email.SendEmailParams{SendTo: "a@b.co", Subject: "hi"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			}
		})
	}
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	_, err := email.NewPostmarkClient(validConfig())
	require.NoError(t, err)

	for name, mutate := range map[string]func(*email.Config){
		"no server token":  func(c *email.Config) { c.PostmarkServerToken = "" },
		"no account token": func(c *email.Config) { c.PostmarkAccountToken = "" },
		"bad sender":       func(c *email.Config) { c.SenderEmail = "sender" },
		"bad support":      func(c *email.Config) { c.SupportEmail = "" },
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			mutate(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestPostmarkSendEmail(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		assert.Equal(t, "server-token", r.Header.Get("X-Postmark-Server-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"abc"}`))
	}))
	t.Cleanup(srv.Close)

	sender, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkBaseURL(srv.URL))
	require.NoError(t, err)

	err = sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "New sign-in",
		BodyText: "text",
		BodyHTML: "<p>html</p>",
		Tag:      "signin-alert",
	})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got["To"])
	assert.Equal(t, "noreply@example.com", got["From"])
	assert.Equal(t, "support@example.com", got["ReplyTo"])
	assert.Equal(t, "text", got["TextBody"])

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
		}))
		t.Cleanup(srv.Close)

		sender, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkBaseURL(srv.URL))
		require.NoError(t, err)
		err = sender.SendEmail(context.Background(), email.SendEmailParams{SendTo: "user@example.com", Subject: "s", BodyText: "t"})
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir, nil)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Confirm your new password",
		BodyText: "plain",
		BodyHTML: "<p>rich</p>",
		Tag:      "confirm-new-password",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		assert.True(t, strings.Contains(e.Name(), "confirm-new-password"))
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		switch filepath.Ext(e.Name()) {
		case ".txt":
			assert.Equal(t, "plain", string(data))
		case ".html":
			assert.Equal(t, "<p>rich</p>", string(data))
		case ".json":
			assert.Contains(t, string(data), `"send_to": "user@example.com"`)
		}
	}

	err = sender.SendEmail(context.Background(), email.SendEmailParams{SendTo: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
