// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/outreach-cli/internal/observability"
)

// resetState isolates global viper and logger state between command tests.
func resetState(t *testing.T) {
	t.Helper()
	viper.Reset()
	observability.ResetForTest()
	t.Cleanup(func() {
		viper.Reset()
		observability.ResetForTest()
	})

	dir := t.TempDir()
	t.Setenv("OUTREACH_DATA_DIR", dir)
	t.Setenv("OUTREACH_LOGGER_LOG_FILE", filepath.Join(dir, "outreach.log"))
}

func TestInitializeConfigDefaults(t *testing.T) {
	resetState(t)

	require.NoError(t, initializeConfig())

	assert.Equal(t, 3, viper.GetInt("connection.max_tabs"))
	assert.Equal(t, 60, viper.GetInt("connection.max_connections"))
	assert.Equal(t, "https://www.linkedin.com/login", viper.GetString("auth.login_url"))
	assert.Equal(t, "info", viper.GetString("logger.level"))
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	resetState(t)
	t.Setenv("OUTREACH_CONNECTION_MAX_CONNECTIONS", "5")
	t.Setenv("OUTREACH_BROWSER_HEADLESS", "true")

	require.NoError(t, initializeConfig())

	assert.Equal(t, 5, viper.GetInt("connection.max_connections"))
	assert.True(t, viper.GetBool("browser.headless"))
}

func TestRootCmd_VersionFlag(t *testing.T) {
	resetState(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--version"})

	err := rootCmd.ExecuteContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), Version)
}

func TestConnectionsCmd_RequiresSearchURL(t *testing.T) {
	resetState(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"connections"})

	err := rootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search URL")
}

func TestJobsCmd_RequiresSearchInput(t *testing.T) {
	resetState(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"jobs"})

	err := rootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "job search is required")
}
