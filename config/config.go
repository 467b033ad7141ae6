// ABOUTME: Layered configuration for the voss CLI, API, and MCP server
// ABOUTME: Viper defaults, optional YAML file at the XDG config path, .env, and VOSS_ env overrides
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harperreed/voss/triage"
)

const appName = "voss"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Triage   TriageConfig   `mapstructure:"triage"`
	Server   ServerConfig   `mapstructure:"server"`
	Drafts   DraftsConfig   `mapstructure:"drafts"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Google   GoogleConfig   `mapstructure:"google"`
	Contacts ContactsConfig `mapstructure:"contacts"`
}

// DatabaseConfig selects the store. A postgres:// DSN wins over the SQLite path.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	DSN  string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TriageConfig struct {
	InboundWindowDays int          `mapstructure:"inbound_window_days"`
	StalenessDays     int          `mapstructure:"staleness_days"`
	WeekStart         string       `mapstructure:"week_start"`
	Timezone          string       `mapstructure:"timezone"`
	Limits            LimitsConfig `mapstructure:"limits"`
}

type LimitsConfig struct {
	Overdue     int `mapstructure:"overdue"`
	DueToday    int `mapstructure:"due_today"`
	Inbound     int `mapstructure:"inbound"`
	NoFollowUp  int `mapstructure:"no_follow_up"`
	GoingCold   int `mapstructure:"going_cold"`
	StaleDeals  int `mapstructure:"stale_deals"`
	NewContacts int `mapstructure:"new_contacts"`
}

type ServerConfig struct {
	Addr      string          `mapstructure:"addr"`
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds email-draft requests: Requests per Interval.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Interval time.Duration `mapstructure:"interval"`
}

type DraftsConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	BotToken string   `mapstructure:"bot_token"`
	ChatIDs  []string `mapstructure:"chat_ids"`
	BaseURL  string   `mapstructure:"base_url"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	SyncDays     int    `mapstructure:"sync_days"`
}

type ContactsConfig struct {
	PhoneRegion string `mapstructure:"phone_region"`
}

// DefaultDatabasePath returns the XDG data path for the SQLite file.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

// ConfigDir returns the XDG config directory searched for config.yaml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("triage.inbound_window_days", triage.DefaultInboundWindowDays)
	v.SetDefault("triage.staleness_days", triage.DefaultStalenessDays)
	v.SetDefault("triage.week_start", strings.ToLower(triage.DefaultWeekStart.String()))
	v.SetDefault("triage.timezone", triage.DefaultTimezone)
	v.SetDefault("triage.limits.overdue", triage.DefaultOverdueLimit)
	v.SetDefault("triage.limits.due_today", triage.DefaultDueTodayLimit)
	v.SetDefault("triage.limits.inbound", triage.DefaultInboundLimit)
	v.SetDefault("triage.limits.no_follow_up", triage.DefaultNoFollowUpLimit)
	v.SetDefault("triage.limits.going_cold", triage.DefaultGoingColdLimit)
	v.SetDefault("triage.limits.stale_deals", triage.DefaultStaleDealsLimit)
	v.SetDefault("triage.limits.new_contacts", triage.DefaultNewContactsLimit)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", 24*time.Hour)
	v.SetDefault("server.rate_limit.requests", 10)
	v.SetDefault("server.rate_limit.interval", time.Minute)

	v.SetDefault("drafts.api_key", "")
	v.SetDefault("drafts.base_url", "https://api.anthropic.com")
	v.SetDefault("drafts.model", "claude-sonnet-4-20250514")
	v.SetDefault("drafts.max_tokens", 1024)
	v.SetDefault("drafts.timeout", 60*time.Second)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_ids", []string{})
	v.SetDefault("telegram.base_url", "https://api.telegram.org")

	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "http://localhost:8080/oauth/callback")
	v.SetDefault("google.sync_days", 30)

	v.SetDefault("contacts.phone_region", "US")
}

// Load reads configuration. An explicit configFile must exist; otherwise
// config.yaml in ConfigDir is optional.
func Load(configFile string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("VOSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("drafts.api_key", "VOSS_DRAFTS_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("google.client_id", "VOSS_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google.client_secret", "VOSS_GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET")
	_ = v.BindEnv("database.dsn", "VOSS_DATABASE_DSN", "DATABASE_URL")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := c.Thresholds(); err != nil {
		return fmt.Errorf("invalid triage config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: expected text or json", c.Log.Format)
	}
	if c.Database.Path == "" && c.Database.DSN == "" {
		return errors.New("database path or dsn is required")
	}
	return nil
}

// Thresholds converts the triage section into engine thresholds.
func (c *Config) Thresholds() (triage.Thresholds, error) {
	loc, err := time.LoadLocation(c.Triage.Timezone)
	if err != nil {
		return triage.Thresholds{}, fmt.Errorf("invalid timezone %q: %w", c.Triage.Timezone, err)
	}
	weekStart, err := parseWeekday(c.Triage.WeekStart)
	if err != nil {
		return triage.Thresholds{}, err
	}
	th := triage.Thresholds{
		InboundWindowDays: c.Triage.InboundWindowDays,
		StalenessDays:     c.Triage.StalenessDays,
		WeekStart:         weekStart,
		Location:          loc,
		Limits: triage.Limits{
			Overdue:     c.Triage.Limits.Overdue,
			DueToday:    c.Triage.Limits.DueToday,
			Inbound:     c.Triage.Limits.Inbound,
			NoFollowUp:  c.Triage.Limits.NoFollowUp,
			GoingCold:   c.Triage.Limits.GoingCold,
			StaleDeals:  c.Triage.Limits.StaleDeals,
			NewContacts: c.Triage.Limits.NewContacts,
		},
	}
	if err := th.Validate(); err != nil {
		return triage.Thresholds{}, err
	}
	return th, nil
}

// parseWeekday accepts full English day names in any case ("monday", "Sunday").
func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid week start %q: expected a day name such as monday", name)
}

// DatabaseTarget returns the DSN when set, else the SQLite path.
func (c *Config) DatabaseTarget() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return c.Database.Path
}
