package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/env"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetCleanup())
	assert.Equal(t, []string{"Health", "Professional", "Spiritual", "Hobbies"}, c.DefaultCategories)
	assert.True(t, c.IsDefault())

	d, err := c.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestGetters_NilPointers(t *testing.T) {
	c := &Config{}
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetCleanup())
	assert.False(t, c.GetStrictSchema())
	assert.False(t, c.GetVerbose())
	assert.False(t, c.GetNoColor())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goalcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUrl: http://localhost:8001
timeout: 5s
rateLimit: 2.5
cleanup: true
strictSchema: true
headers:
  X-Env: preview
user:
  password: "{{$GOALCHECK_PASSWORD}}"
`), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8001", c.BaseURL)
	assert.Equal(t, "5s", c.Timeout)
	assert.Equal(t, 2.5, c.RateLimit)
	assert.True(t, c.GetCleanup())
	assert.True(t, c.GetStrictSchema())
	assert.Equal(t, "preview", c.Headers["X-Env"])
	assert.Equal(t, "{{$GOALCHECK_PASSWORD}}", c.User.Password)
	// unspecified values keep their defaults
	assert.Equal(t, DefaultEmail, c.User.Email)
	assert.Equal(t, DefaultName, c.User.Name)
	assert.Len(t, c.DefaultCategories, 4)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goalcheck.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseUrl":"http://127.0.0.1:9000","output":"junit","defaultCategories":["Health"]}`), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", c.BaseURL)
	assert.Equal(t, "junit", c.Output)
	assert.Equal(t, []string{"Health"}, c.DefaultCategories)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goalcheck.yaml")
		require.NoError(t, os.WriteFile(path, []byte("baseUrl: [unclosed"), 0644))
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		c, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, c.IsDefault())
	})

	t.Run("search order prefers goalcheck.yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "goalcheck.json"), []byte(`{"baseUrl":"http://json"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "goalcheck.yaml"), []byte("baseUrl: http://yaml\n"), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://yaml", c.BaseURL)
	})
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"X-A": "1"}

	merged := base.Merge(&Config{
		BaseURL:  "http://localhost:8001",
		Cleanup:  BoolPtr(true),
		Verbose:  BoolPtr(false),
		Headers:  map[string]string{"X-B": "2"},
		User:     User{Password: "override"},
		Timeout:  "3s",
		LogLevel: "debug",
		Notify:   Notify{When: "recovery"},
	})

	assert.Equal(t, "http://localhost:8001", merged.BaseURL)
	assert.True(t, merged.GetCleanup())
	assert.Equal(t, "3s", merged.Timeout)
	assert.Equal(t, "debug", merged.LogLevel)
	assert.Equal(t, "override", merged.User.Password)
	assert.Equal(t, DefaultEmail, merged.User.Email)
	assert.Equal(t, map[string]string{"X-A": "1", "X-B": "2"}, merged.Headers)
	assert.Equal(t, Notify{When: "recovery"}, merged.Notify)

	// the receiver is left untouched
	assert.Equal(t, DefaultBaseURL, base.BaseURL)
	assert.Equal(t, map[string]string{"X-A": "1"}, base.Headers)
	assert.Same(t, base, base.Merge(nil))

	base.Variables = map[string]string{"a": "1"}
	withVars := base.Merge(&Config{Variables: map[string]string{"b": "2"}})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, withVars.Variables)
	assert.Equal(t, map[string]string{"a": "1"}, base.Variables)
}

func TestResolve(t *testing.T) {
	r := env.NewResolver()
	r.SetEnvLookup(func(k string) (string, bool) {
		if k == "GOALCHECK_PASSWORD" {
			return "s3cret", true
		}
		return "", false
	})
	r.Functions().SetClock(func() time.Time {
		return time.Date(2026, 1, 15, 9, 30, 5, 0, time.UTC)
	})

	c := DefaultConfig()
	c.BaseURL = "http://localhost:8001/"
	c.User.Password = "{{$GOALCHECK_PASSWORD}}"
	c.Notify.SlackWebhook = "https://hooks.slack.com/services/{{$GOALCHECK_PASSWORD}}"

	resolved := c.Resolve(r)

	assert.Equal(t, "http://localhost:8001", resolved.BaseURL)
	assert.Equal(t, "test_20260115_093005@example.com", resolved.User.Email)
	assert.Equal(t, "s3cret", resolved.User.Password)
	assert.Equal(t, "https://hooks.slack.com/services/s3cret", resolved.Notify.SlackWebhook)
	assert.Equal(t, DefaultEmail, c.User.Email)
}

func TestResolve_Variables(t *testing.T) {
	r := env.NewResolver()
	r.SetEnvLookup(func(k string) (string, bool) {
		if k == "STAGE" {
			return "preview", true
		}
		return "", false
	})

	c := DefaultConfig()
	c.Variables = map[string]string{"host": "api.{{$STAGE}}.example.com"}
	c.BaseURL = "https://{{host}}"
	c.Headers = map[string]string{"X-Host": "{{host}}"}

	resolved := c.Resolve(r)

	assert.Equal(t, "https://api.preview.example.com", resolved.BaseURL)
	assert.Equal(t, "api.preview.example.com", resolved.Headers["X-Host"])
	assert.Equal(t, "api.{{$STAGE}}.example.com", resolved.Variables["host"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad scheme", mutate: func(c *Config) { c.BaseURL = "ftp://x" }, errMsg: "baseUrl"},
		{name: "bad timeout", mutate: func(c *Config) { c.Timeout = "soon" }, errMsg: "timeout"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = "0s" }, errMsg: "timeout must be positive"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, errMsg: "rateLimit"},
		{name: "unknown output", mutate: func(c *Config) { c.Output = "html" }, errMsg: "output must be one of"},
		{name: "xlsx without file", mutate: func(c *Config) { c.Output = "xlsx" }, errMsg: "requires outputFile"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }, errMsg: "logLevel"},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, errMsg: "logFormat"},
		{name: "missing password", mutate: func(c *Config) { c.User.Password = "" }, errMsg: "password"},
		{name: "no categories", mutate: func(c *Config) { c.DefaultCategories = nil }, errMsg: "defaultCategories"},
		{name: "unknown notify policy", mutate: func(c *Config) { c.Notify.When = "sometimes" }, errMsg: "notify.when"},
		{name: "bad slack webhook", mutate: func(c *Config) { c.Notify.SlackWebhook = "hooks.slack.com/x" }, errMsg: "notify.slackWebhook"},
		{name: "slack webhook", mutate: func(c *Config) {
			c.Notify = Notify{SlackWebhook: "https://hooks.slack.com/services/T/B/X", When: "always"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"goalcheck.yaml", "goalcheck.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			c := DefaultConfig()
			c.BaseURL = "http://localhost:8001"
			require.NoError(t, c.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, c, loaded)
		})
	}
}
