package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:     "simple key-value",
			content:  "GOALCHECK_BASE_URL=http://localhost:8001",
			expected: map[string]string{"GOALCHECK_BASE_URL": "http://localhost:8001"},
		},
		{
			name:    "multiple keys",
			content: "GOALCHECK_EMAIL=a@example.com\nGOALCHECK_PASSWORD=TestPass123!",
			expected: map[string]string{
				"GOALCHECK_EMAIL":    "a@example.com",
				"GOALCHECK_PASSWORD": "TestPass123!",
			},
		},
		{
			name:     "double quoted value",
			content:  `GOALCHECK_NAME="Test User"`,
			expected: map[string]string{"GOALCHECK_NAME": "Test User"},
		},
		{
			name:     "single quoted value",
			content:  `GOALCHECK_NAME='Test User'`,
			expected: map[string]string{"GOALCHECK_NAME": "Test User"},
		},
		{
			name:     "comments and blank lines",
			content:  "# preview backend\n\nGOALCHECK_TIMEOUT=5s\n",
			expected: map[string]string{"GOALCHECK_TIMEOUT": "5s"},
		},
		{
			name:     "export prefix",
			content:  "export GOALCHECK_VERBOSE=true",
			expected: map[string]string{"GOALCHECK_VERBOSE": "true"},
		},
		{
			name:     "empty file",
			content:  "",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadDotEnv(writeEnvFile(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read env file")
}

func TestLoadAndExportDotEnv(t *testing.T) {
	t.Setenv("GOALCHECK_TEST_KEEP", "from-shell")
	path := writeEnvFile(t, "GOALCHECK_TEST_KEEP=from-file\nGOALCHECK_TEST_NEW=exported\n")
	t.Cleanup(func() { _ = os.Unsetenv("GOALCHECK_TEST_NEW") })

	exported, err := LoadAndExportDotEnv(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"GOALCHECK_TEST_NEW": "exported"}, exported)
	assert.Equal(t, "from-shell", os.Getenv("GOALCHECK_TEST_KEEP"))
	assert.Equal(t, "exported", os.Getenv("GOALCHECK_TEST_NEW"))
}
