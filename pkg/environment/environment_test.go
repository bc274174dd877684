package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authcore/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		want     environment.Environment
		deployed bool
	}{
		{"production", environment.Production, true},
		{" PROD ", environment.Production, true},
		{"stage", environment.Staging, true},
		{"development", environment.Development, false},
		{"", environment.Development, false},
		{"qa", environment.Development, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := environment.Parse(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.deployed, got.Deployed())
		})
	}
}
