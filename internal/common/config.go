// Package common provides shared configuration and logging for shiftwatch.
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/shiftwatch/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Logging     LoggingConfig  `toml:"logging"`
	Storage     StorageConfig  `toml:"storage"`
	Scraper     ScraperConfig  `toml:"scraper"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Portals     PortalsConfig  `toml:"portals"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger       BadgerConfig `toml:"badger"`
	ArtifactsDir string       `toml:"artifacts_dir" validate:"required"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// ScraperConfig controls the shared browser automation behavior.
type ScraperConfig struct {
	Enabled      bool          `toml:"enabled"` // false on deployments that forbid browser automation
	Headless     bool          `toml:"headless"`
	NoSandbox    bool          `toml:"no_sandbox"`
	UserAgent    string        `toml:"user_agent"`
	NavTimeout   time.Duration `toml:"nav_timeout"`   // per-navigation bound
	RequestDelay time.Duration `toml:"request_delay"` // minimum delay between navigations per portal
	Timezone     string        `toml:"timezone"`      // portal-local timezone for "today" judgements
}

// ScheduleConfig controls the fixed-time trigger.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // standard 5-field cron expression
}

// PortalsConfig holds credentials and endpoints for the two admin portals.
type PortalsConfig struct {
	Roster PortalConfig `toml:"roster"`
	Diary  PortalConfig `toml:"diary"`
}

// PortalConfig is one tenant-parametrized portal. ShopID, Account and
// Password are required whenever scraping is enabled.
type PortalConfig struct {
	Name        string `toml:"name"`
	BaseURL     string `toml:"base_url"`
	LoginPath   string `toml:"login_path"`
	ShopID      string `toml:"shop_id"`
	Account     string `toml:"account"`
	Password    string `toml:"password"`
	LoginMarker string `toml:"login_marker"` // token present in the URL while unauthenticated

	// Portal-relative paths to the pages scraped after login. Only the
	// paths relevant to a portal need to be set.
	AttendancePath string `toml:"attendance_path"`
	SchedulePath   string `toml:"schedule_path"`
	StatsPath      string `toml:"stats_path"`
	FeedPath       string `toml:"feed_path"`
}

// LoginURL builds the tenant-parametrized login URL.
func (p PortalConfig) LoginURL() string {
	base := strings.TrimSuffix(p.BaseURL, "/")
	path := p.LoginPath
	if path == "" {
		path = "/login"
	}
	if p.ShopID == "" {
		return base + path
	}
	return fmt.Sprintf("%s%s?shop=%s", base, path, p.ShopID)
}

// PageURL resolves a portal-relative path against the portal base URL.
func (p PortalConfig) PageURL(path string) string {
	return strings.TrimSuffix(p.BaseURL, "/") + path
}

// NewDefaultConfig returns a config populated with defaults. File, env
// and flag values are layered on top.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/badger",
			},
			ArtifactsDir: "./data/artifacts",
		},
		Scraper: ScraperConfig{
			Enabled:      true,
			Headless:     true,
			NoSandbox:    false,
			UserAgent:    "Shiftwatch/1.0",
			NavTimeout:   30 * time.Second,
			RequestDelay: 500 * time.Millisecond,
			Timezone:     "Asia/Tokyo",
		},
		Schedule: ScheduleConfig{
			Enabled: true,
			// Six fixed local times: 00:00, 09:00, 12:00, 15:00, 18:00, 21:00
			Cron: "0 0,9,12,15,18,21 * * *",
		},
		Portals: PortalsConfig{
			Roster: PortalConfig{
				Name:           "roster",
				LoginPath:      "/A2Login",
				LoginMarker:    "Login",
				AttendancePath: "/A2AttendList",
				SchedulePath:   "/A2AttendWeekList",
				StatsPath:      "/A2DiaryCountList",
			},
			Diary: PortalConfig{
				Name:        "diary",
				LoginPath:   "/keitai/login",
				LoginMarker: "login",
				FeedPath:    "/keitai/diary_list",
			},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SHIFTWATCH_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SHIFTWATCH_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SHIFTWATCH_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("SHIFTWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SHIFTWATCH_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if badgerPath := os.Getenv("SHIFTWATCH_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if artifactsDir := os.Getenv("SHIFTWATCH_ARTIFACTS_DIR"); artifactsDir != "" {
		config.Storage.ArtifactsDir = artifactsDir
	}

	if enabled := os.Getenv("SHIFTWATCH_SCRAPER_ENABLED"); enabled != "" {
		config.Scraper.Enabled = enabled == "true" || enabled == "1"
	}
	if tz := os.Getenv("SHIFTWATCH_TIMEZONE"); tz != "" {
		config.Scraper.Timezone = tz
	}
	if cronExpr := os.Getenv("SHIFTWATCH_SCHEDULE_CRON"); cronExpr != "" {
		config.Schedule.Cron = cronExpr
	}

	applyPortalEnvOverrides(&config.Portals.Roster, "ROSTER")
	applyPortalEnvOverrides(&config.Portals.Diary, "DIARY")
}

func applyPortalEnvOverrides(portal *PortalConfig, prefix string) {
	if v := os.Getenv("SHIFTWATCH_" + prefix + "_BASE_URL"); v != "" {
		portal.BaseURL = v
	}
	if v := os.Getenv("SHIFTWATCH_" + prefix + "_SHOP_ID"); v != "" {
		portal.ShopID = v
	}
	if v := os.Getenv("SHIFTWATCH_" + prefix + "_ACCOUNT"); v != "" {
		portal.Account = v
	}
	if v := os.Getenv("SHIFTWATCH_" + prefix + "_PASSWORD"); v != "" {
		portal.Password = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks structural constraints and, when scraping is enabled,
// the presence of every required portal credential. Runs before any
// network activity; a missing credential is a hard ConfigurationError.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Schedule.Enabled {
		if err := ValidateCronSchedule(c.Schedule.Cron); err != nil {
			return fmt.Errorf("invalid schedule.cron: %w", err)
		}
	}

	if _, err := time.LoadLocation(c.Scraper.Timezone); err != nil {
		return fmt.Errorf("invalid scraper.timezone %q: %w", c.Scraper.Timezone, err)
	}

	if !c.Scraper.Enabled {
		return nil
	}

	for _, check := range []struct {
		field string
		value string
	}{
		{"portals.roster.base_url", c.Portals.Roster.BaseURL},
		{"portals.roster.shop_id", c.Portals.Roster.ShopID},
		{"portals.roster.account", c.Portals.Roster.Account},
		{"portals.roster.password", c.Portals.Roster.Password},
		{"portals.diary.base_url", c.Portals.Diary.BaseURL},
		{"portals.diary.shop_id", c.Portals.Diary.ShopID},
		{"portals.diary.account", c.Portals.Diary.Account},
		{"portals.diary.password", c.Portals.Diary.Password},
	} {
		if strings.TrimSpace(check.value) == "" {
			return &models.ConfigurationError{Field: check.field}
		}
	}

	return nil
}

// ValidateCronSchedule parses a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// Location returns the configured portal-local timezone. Validate has
// already checked it parses; falls back to UTC on an unvalidated config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scraper.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}
