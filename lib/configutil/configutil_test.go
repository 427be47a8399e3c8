package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type scrapeConfig struct {
	BaseURL string `json:"base_url"`
	DelayMs int    `json:"delay_ms"`
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "scraper.json5"),
		[]byte(`{base_url: "https://www.lezec.cz", delay_ms: 1000}`),
		0600,
	)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "scraper.local.json5"),
		[]byte(`{delay_ms: 0}`),
		0600,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[scrapeConfig](filepath.Join(dir, "scraper.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://www.lezec.cz", cfg.BaseURL)
	require.Equal(t, 0, cfg.DelayMs)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "scraper.local.json5"),
		[]byte(`{base_url: "http://localhost:8080"}`),
		0600,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[scrapeConfig](filepath.Join(dir, "scraper.json5"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestReadConfigNotExist(t *testing.T) {
	_, err := ReadConfig[scrapeConfig](filepath.Join(t.TempDir(), "scraper.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
