package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_NAME", "frontdesk")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("LEAVE_CALENDAR_TZ", "Asia/Jakarta")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "frontdesk", cfg.Database.Name)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestLocation_UnknownZone(t *testing.T) {
	cfg := Config{CalendarTimezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())
}
