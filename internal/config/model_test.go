package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cargopx/internal/config"
)

func TestDefault(t *testing.T) {
	s := config.Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, config.FormatText, s.LogFormat)
	assert.Empty(t, s.LogLevel)
	assert.NotNil(t, s.Env)
}

func TestSettings_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr string
	}{
		{name: "json logs", mutate: func(s *config.Settings) { s.LogFormat = config.FormatJSON; s.LogLevel = "debug" }},
		{name: "bad level", mutate: func(s *config.Settings) { s.LogLevel = "trace" }, wantErr: `invalid log_level "trace"`},
		{name: "bad format", mutate: func(s *config.Settings) { s.LogFormat = "xml" }, wantErr: `invalid log_format "xml"`},
		{name: "flag as command", mutate: func(s *config.Settings) { s.ExtraCodegenCommands = []string{"--all"} }, wantErr: `invalid entry "--all"`},
		{name: "bad env key", mutate: func(s *config.Settings) { s.Env["A=B"] = "x" }, wantErr: `invalid environment variable name "A=B"`},
		{
			name: "path is reported",
			mutate: func(s *config.Settings) {
				s.Path = "/ws/.cargo-px.hcl"
				s.LogFormat = ""
			},
			wantErr: "invalid settings in /ws/.cargo-px.hcl",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := config.Default()
			tc.mutate(s)
			err := s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	t.Run("all problems are reported", func(t *testing.T) {
		s := config.Default()
		s.LogLevel = "loud"
		s.LogFormat = "yaml"
		err := s.Validate()
		assert.ErrorContains(t, err, "log_level")
		assert.ErrorContains(t, err, "log_format")
	})
}
