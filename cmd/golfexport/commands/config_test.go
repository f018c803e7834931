package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setFlags(t *testing.T, config, tok, out string) {
	t.Helper()
	prevConfig, prevToken, prevOut := *configPath, *token, *outDir
	t.Cleanup(func() {
		*configPath, *token, *outDir = prevConfig, prevToken, prevOut
	})
	*configPath, *token, *outDir = config, tok, out
}

func TestLoadConfigDefaults(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "config.json5"), "", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, defaultConfig, cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// comments are allowed
		hole_slots: 9,
		timezone: "Europe/London",
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{token: "from-config"}`), 0644))
	setFlags(t, path, "", "-")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 9, cfg.HoleSlots)
	require.Equal(t, "Europe/London", cfg.Timezone)
	require.Equal(t, "from-config", cfg.Token)
	require.Equal(t, "-", cfg.OutputDir)
	require.Equal(t, 2.0, cfg.requestsPerSecond())
}

func TestLoadConfigDisablesLimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{requests_per_second: 0}`), 0644))
	setFlags(t, path, "", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 0.0, cfg.requestsPerSecond())
	require.Equal(t, 2.0, defaultRequestsPerSecond)
	require.Equal(t, 2.0, Config{}.requestsPerSecond())
}

func TestCredentialPrecedence(t *testing.T) {
	cfg := Config{Token: "config-token"}

	setFlags(t, "", "", "")
	t.Setenv(tokenEnv, "")
	require.False(t, cfg.credential().Empty())
	require.True(t, Config{}.credential().Empty())

	t.Setenv(tokenEnv, "env-token")
	require.Equal(t, cfg.credential(), Config{}.credential(), "environment wins over config")

	*token = "flag-token"
	t.Setenv(tokenEnv, "")
	withFlag := cfg.credential()
	*token = ""
	t.Setenv(tokenEnv, "flag-token")
	require.Equal(t, withFlag, cfg.credential(), "flag and env resolve to the same credential")
}
