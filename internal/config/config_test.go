package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.DayStartHour)
	assert.Equal(t, 18, cfg.DayEndHour)
	assert.True(t, cfg.IncludePrefestivi)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INGAGGIO_DAY_START_HOUR", "9")
	t.Setenv("INGAGGIO_DAY_END_HOUR", "13")
	t.Setenv("INGAGGIO_INCLUDE_PREFESTIVI", "false")
	t.Setenv("INGAGGIO_DB_PATH", "/tmp/ingaggio-test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.DayStartHour)
	assert.Equal(t, 13, cfg.DayEndHour)
	assert.False(t, cfg.IncludePrefestivi)
	assert.Equal(t, "/tmp/ingaggio-test.db", cfg.DBPath)
}

func TestLoad_RejectsInvertedHours(t *testing.T) {
	t.Setenv("INGAGGIO_DAY_START_HOUR", "18")
	t.Setenv("INGAGGIO_DAY_END_HOUR", "8")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{DayStartHour: 8, DayEndHour: 18}
	assert.NoError(t, cfg.Validate())

	cfg.DayStartHour = -1
	assert.Error(t, cfg.Validate())

	cfg.DayStartHour = 8
	cfg.DayEndHour = 25
	assert.Error(t, cfg.Validate())
}
