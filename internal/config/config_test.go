package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
check_interval_seconds: 120
signup_user:
  first_name: Ada
  last_name: Lovelace
  email: ada@example.com
  phone: "555-0100"
  student_number: "A1234567"
navigators:
  massage:
    type: massage
    location: Wellness Centre
    policy:
      kind: week_window
      weeks: 1
    sites:
      - name: main
        url: https://example.test/massage
        priority: 1
    slots:
      - day: Monday
        start: "09:00"
        end: "12:00"
  physio:
    type: physio
    policy:
      kind: time_window
      hours: 4
    sites:
      - name: main
        url: https://example.test/physio
        priority: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_TO", "")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 120*time.Second, cfg.SweepInterval)
	assert.Equal(t, "ada@example.com", cfg.SignupUser.Email)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)

	require.Len(t, cfg.Navigators, 2)
	massage := cfg.Navigators["massage"]
	assert.Equal(t, "week_window", massage.Policy.Kind)
	assert.Equal(t, 1, massage.Policy.Window())
	require.Len(t, massage.Slots, 1)
	assert.Equal(t, "Monday", massage.Slots[0].Day)

	physio := cfg.Navigators["physio"]
	assert.Equal(t, 4, physio.Policy.Window())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "60")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_TO", "ops@example.com")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no navigators", `check_interval_seconds: 60`},
		{"bad type", `
navigators:
  yoga:
    type: yoga
    policy: {kind: week_window, weeks: 1}
    sites: [{name: main, url: https://example.test}]
`},
		{"bad policy kind", `
navigators:
  massage:
    type: massage
    policy: {kind: lunar_window, weeks: 1}
    sites: [{name: main, url: https://example.test}]
`},
		{"zero weeks", `
navigators:
  massage:
    type: massage
    policy: {kind: week_window, weeks: 0}
    sites: [{name: main, url: https://example.test}]
`},
		{"no sites", `
navigators:
  massage:
    type: massage
    policy: {kind: week_window, weeks: 1}
`},
		{"site without url", `
navigators:
  massage:
    type: massage
    policy: {kind: week_window, weeks: 1}
    sites: [{name: main}]
`},
		{"bad slot window", `
navigators:
  massage:
    type: massage
    policy: {kind: week_window, weeks: 1}
    sites: [{name: main, url: https://example.test}]
    slots: [{day: Monday, start: "12:00", end: "09:00"}]
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_CookieKeys(t *testing.T) {
	t.Setenv("COOKIE_HASH_KEY", "aGFzaC1rZXktaGFzaC1rZXk=")
	t.Setenv("COOKIE_BLOCK_KEY", "YmxvY2sta2V5LWJsb2NrLWs=")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, []byte("hash-key-hash-key"), cfg.CookieHashKey)
	assert.Equal(t, []byte("block-key-block-k"), cfg.CookieBlockKey)

	t.Setenv("COOKIE_HASH_KEY", "!!not base64!!")
	_, err = Load(writeConfig(t, sampleYAML))
	assert.Error(t, err)
}
