package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "09:00", cfg.Scheduling.ClassStart)
	assert.Equal(t, 120, cfg.Scheduling.ClassMinutes)
	assert.Equal(t, 104, cfg.Scheduling.MaxProjectionWeeks)
	assert.Equal(t, 366, cfg.Scheduling.MaxSlotWindowDays)
	assert.Equal(t, "06:00", cfg.Scheduling.WorkingHoursOpen)
	assert.Equal(t, "22:00", cfg.Scheduling.WorkingHoursClose)
	assert.Equal(t, 6*time.Hour, cfg.Holidays.CacheTTL)
	assert.Equal(t, "scheduling_changes", cfg.Notifier.PGChannel)
	assert.Equal(t, "@daily", cfg.Enrollment.ExpiryCron)
	assert.Equal(t, "UTC", cfg.Scheduling.Timezone)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SCHEDULING_CLASS_MINUTES", "90")
	t.Setenv("SCHEDULING_MAX_SLOT_WINDOW_DAYS", "31")
	t.Setenv("SCHEDULING_NATIONAL_HOLIDAYS", "us")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("HOLIDAY_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Scheduling.ClassMinutes)
	assert.Equal(t, 31, cfg.Scheduling.MaxSlotWindowDays)
	assert.Equal(t, "US", cfg.Holidays.NationalCountry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6*time.Hour, cfg.Holidays.CacheTTL)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestSchedulingLocation(t *testing.T) {
	assert.Equal(t, time.UTC, SchedulingConfig{}.Location())
	assert.Equal(t, time.UTC, SchedulingConfig{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "UTC", SchedulingConfig{Timezone: "UTC"}.Location().String())
}
