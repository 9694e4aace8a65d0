package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	req "github.com/stretchr/testify/require"
)

func TestLoadLogin(t *testing.T) {
	t.Setenv("LOGIN_USERNAME", "agent")
	t.Setenv("LOGIN_PASSWORD", "pass")
	t.Setenv("LOGIN_URL", "http://portal.example")

	cfg, err := LoadLogin()
	req.NoError(t, err)
	assert.Equal(t, "agent", cfg.Username)
	assert.Equal(t, "http://portal.example", cfg.LoginURL)
}

func TestLoadLoginMissingVariable(t *testing.T) {
	t.Setenv("LOGIN_USERNAME", "agent")
	t.Setenv("LOGIN_PASSWORD", "pass")
	t.Setenv("LOGIN_URL", "")

	_, err := LoadLogin()
	req.Error(t, err)
	assert.Contains(t, err.Error(), "LOGIN_URL")
}

func TestLoadCalibrate(t *testing.T) {
	t.Setenv("AGENT_HQ", "http://hq.example")
	t.Setenv("POLIGON_KEY", "key")
	t.Setenv("REPORT_ENDPOINT", "http://hq.example/report")

	cfg, err := LoadCalibrate()
	req.NoError(t, err)
	assert.Equal(t, "http://hq.example", cfg.HQBaseURL)
	assert.Equal(t, "key", cfg.APIKey)
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CHAT_MODEL", "")
	t.Setenv("SYSTEM_PROMPT", "")

	cfg := LoadServer("3000")
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.Model)
	assert.Equal(t, "You are a helpful assistant.", cfg.SystemPrompt)
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CHAT_MODEL", "gemini-2.5-pro")
	t.Setenv("SYSTEM_PROMPT", "Answer tersely.")

	cfg := LoadServer("3000")
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "Answer tersely.", cfg.SystemPrompt)
}

func TestLoadTraceMissingKey(t *testing.T) {
	t.Setenv("TRACE_ENDPOINT", "http://traces.example")
	t.Setenv("TRACE_PUBLIC_KEY", "pk")
	t.Setenv("TRACE_SECRET_KEY", "")

	_, err := LoadTrace()
	req.Error(t, err)
	assert.Contains(t, err.Error(), "TRACE_SECRET_KEY")
}
