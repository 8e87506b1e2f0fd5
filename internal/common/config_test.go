package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/shiftwatch/internal/models"
)

func validTestConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Portals.Roster.BaseURL = "http://roster.example.com"
	cfg.Portals.Roster.ShopID = "sakura"
	cfg.Portals.Roster.Account = "admin"
	cfg.Portals.Roster.Password = "secret"
	cfg.Portals.Diary.BaseURL = "http://diary.example.com"
	cfg.Portals.Diary.ShopID = "sakura"
	cfg.Portals.Diary.Account = "admin"
	cfg.Portals.Diary.Password = "secret"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.Scraper.Timezone)
	assert.Equal(t, "0 0,9,12,15,18,21 * * *", cfg.Schedule.Cron)
	assert.True(t, cfg.Scraper.Enabled)
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := validTestConfig()
	cfg.Portals.Roster.Password = ""

	err := cfg.Validate()
	require.Error(t, err)

	var confErr *models.ConfigurationError
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, "portals.roster.password", confErr.Field)
}

func TestValidateSkipsCredentialsWhenScrapingDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Scraper.Enabled = false

	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadCron(t *testing.T) {
	cfg := validTestConfig()
	cfg.Schedule.Cron = "not a schedule"

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	cfg := validTestConfig()
	cfg.Scraper.Timezone = "Mars/Olympus"

	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestLoadFromFilesLayering(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
environment = "production"

[server]
port = 9001

[portals.roster]
base_url = "http://roster.example.com"
shop_id = "sakura"
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9002
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9002, cfg.Server.Port, "later file should win")
	assert.Equal(t, "sakura", cfg.Portals.Roster.ShopID)
	// Defaults survive where files are silent
	assert.Equal(t, "/A2Login", cfg.Portals.Roster.LoginPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHIFTWATCH_SERVER_PORT", "9100")
	t.Setenv("SHIFTWATCH_ROSTER_PASSWORD", "env-secret")
	t.Setenv("SHIFTWATCH_DIARY_ACCOUNT", "env-admin")
	t.Setenv("SHIFTWATCH_SCRAPER_ENABLED", "false")
	t.Setenv("SHIFTWATCH_SCHEDULE_CRON", "0 */2 * * *")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Portals.Roster.Password)
	assert.Equal(t, "env-admin", cfg.Portals.Diary.Account)
	assert.False(t, cfg.Scraper.Enabled)
	assert.Equal(t, "0 */2 * * *", cfg.Schedule.Cron)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "0.0.0.0")
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestPortalURLs(t *testing.T) {
	portal := PortalConfig{
		BaseURL:   "http://roster.example.com/",
		LoginPath: "/A2Login",
		ShopID:    "sakura",
	}

	assert.Equal(t, "http://roster.example.com/A2Login?shop=sakura", portal.LoginURL())
	assert.Equal(t, "http://roster.example.com/A2AttendList", portal.PageURL("/A2AttendList"))
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 0,9,12,15,18,21 * * *"))
	assert.Error(t, ValidateCronSchedule("61 * * * *"))
	assert.Error(t, ValidateCronSchedule(""))
}
