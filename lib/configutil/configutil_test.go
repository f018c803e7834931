package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl   string   `json:"base_url"`
	Token     string   `json:"token"`
	HoleSlots int      `json:"hole_slots"`
	Rate      *float64 `json:"rate"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments and trailing commas are allowed
		base_url: "https://connect.garmin.com",
		hole_slots: 18,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ token: "abc" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:   "https://connect.garmin.com",
		Token:     "abc",
		HoleSlots: 18,
	}, cfg)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigWithDefaults(t *testing.T) {
	defaults := testConfig{BaseUrl: "https://example.com", HoleSlots: 18}

	cfg, err := ReadConfigWithDefaults(filepath.Join(t.TempDir(), "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ hole_slots: 9 }`)
	cfg, err = ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.BaseUrl)
	require.Equal(t, 9, cfg.HoleSlots)
}

func TestReadConfigWithDefaultsKeepsExplicitZero(t *testing.T) {
	rate := 2.0
	defaults := testConfig{HoleSlots: 18, Rate: &rate}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ hole_slots: 0, rate: 0 }`)
	cfg, err := ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, 18, cfg.HoleSlots, "zero values are filled from defaults")
	require.NotNil(t, cfg.Rate)
	require.Equal(t, 0.0, *cfg.Rate, "explicit pointer zero is kept")
	require.Equal(t, 2.0, rate, "defaults are not modified")

	writeFile(t, filepath.Join(dir, "config.json5"), `{}`)
	cfg, err = ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, 2.0, *cfg.Rate)

	writeFile(t, filepath.Join(dir, "config.json5"), `{ rate: 5 }`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ rate: 0 }`)
	cfg, err = ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, 0.0, *cfg.Rate, "local override to zero is kept")
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ hole_slots: `)
	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}
