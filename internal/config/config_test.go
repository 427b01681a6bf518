package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "watch_dir: /in\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/in", cfg.WatchDir)
	assert.Equal(t, 20*time.Minute, cfg.PollInterval)
	assert.Equal(t, 2*time.Hour, cfg.StabilityTimeout)
	assert.Equal(t, 5*time.Minute, cfg.MainBreak)
	assert.Equal(t, 21, cfg.DailyEndingHour)
	assert.Equal(t, 5, cfg.SampleAttempts)
	assert.Equal(t, 15*time.Second, cfg.SampleDelay)
	assert.Empty(t, cfg.IgnoreList)
}

func TestLoadIgnoreList(t *testing.T) {
	path := writeConfig(t, "ignore_list:\n  - \".*\"\n  - \"*.partial\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".*", "*.partial"}, cfg.IgnoreList)
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, "poll_interval: 5m\nstability_timeout: 90m\ndaily_ending_hour: 18\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, 90*time.Minute, cfg.StabilityTimeout)
	assert.Equal(t, 18, cfg.DailyEndingHour)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DROPZONE_DAILY_ENDING_HOUR", "7")
	path := writeConfig(t, "daily_ending_hour: 18\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DailyEndingHour)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig(t *testing.T) Config {
	t.Helper()

	base := t.TempDir()
	cfg := Default
	cfg.WatchDir = filepath.Join(base, "in")
	cfg.TargetDir = filepath.Join(base, "target")
	cfg.ArchiveDir = filepath.Join(base, "archive")
	cfg.LogDir = filepath.Join(base, "logs")
	for _, dir := range []string{cfg.WatchDir, cfg.TargetDir, cfg.ArchiveDir, cfg.LogDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return cfg
}

func TestValidate(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.Validate())

	missing := cfg
	missing.ArchiveDir = filepath.Join(t.TempDir(), "gone")
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive_dir")

	bad := cfg
	bad.DailyEndingHour = 24
	bad.PollInterval = 0
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily_ending_hour")
	assert.Contains(t, err.Error(), "poll_interval")
}

func TestEndingTime(t *testing.T) {
	cfg := Config{DailyEndingHour: 21}
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC), cfg.EndingTime(now))
}
