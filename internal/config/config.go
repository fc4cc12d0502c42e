// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Browser    BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	Session    SessionConfig     `mapstructure:"session" yaml:"session"`
	Pacing     PacingConfig      `mapstructure:"pacing" yaml:"pacing"`
	Auth       AuthConfig        `mapstructure:"auth" yaml:"auth"`
	Connection ConnectionConfig  `mapstructure:"connection" yaml:"connection"`
	Jobs       JobsConfig        `mapstructure:"jobs" yaml:"jobs"`
	Profile    map[string]string `mapstructure:"profile" yaml:"profile"`
	Selectors  Selectors         `mapstructure:"selectors" yaml:"selectors"`
	DataDir    string            `mapstructure:"data_dir" yaml:"data_dir"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless  bool     `mapstructure:"headless" yaml:"headless"`
	UserAgent string   `mapstructure:"user_agent" yaml:"user_agent"`
	Args      []string `mapstructure:"args" yaml:"args"`
	Width     int      `mapstructure:"width" yaml:"width"`
	Height    int      `mapstructure:"height" yaml:"height"`
}

// SessionConfig tunes waits applied by the rendering session.
type SessionConfig struct {
	// ElementTimeout bounds every wait-for-element operation.
	ElementTimeout time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	PageSettleMin  time.Duration `mapstructure:"page_settle_min" yaml:"page_settle_min"`
	PageSettleMax  time.Duration `mapstructure:"page_settle_max" yaml:"page_settle_max"`
}

// PacingConfig tunes the adaptive delay between actions.
type PacingConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay" yaml:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	// ActionsPerMinute caps the sustained action rate on top of the
	// randomized per-action delays. Zero disables the ceiling.
	ActionsPerMinute int `mapstructure:"actions_per_minute" yaml:"actions_per_minute"`
}

// AuthConfig carries sign-in credentials and cookie persistence settings.
type AuthConfig struct {
	Username   string `mapstructure:"username" yaml:"username"`
	Password   string `mapstructure:"password" yaml:"-"`
	UseCookies bool   `mapstructure:"use_cookies" yaml:"use_cookies"`
	LoginURL   string `mapstructure:"login_url" yaml:"login_url"`
	CookieFile string `mapstructure:"cookie_file" yaml:"cookie_file"`
}

// ConnectionConfig configures the connection campaign.
type ConnectionConfig struct {
	SearchURL string `mapstructure:"search_url" yaml:"search_url"`
	MaxTabs   int    `mapstructure:"max_tabs" yaml:"max_tabs"`
	// MaxConnections caps successful requests per run. Zero means unlimited.
	MaxConnections int `mapstructure:"max_connections" yaml:"max_connections"`
}

// JobsConfig configures the job application campaign.
type JobsConfig struct {
	SearchURL string `mapstructure:"search_url" yaml:"search_url"`
	JobsURL   string `mapstructure:"jobs_url" yaml:"jobs_url"`
	Keywords  string `mapstructure:"keywords" yaml:"keywords"`
	Location  string `mapstructure:"location" yaml:"location"`
	// MaxApplications caps submitted applications per run. Zero means unlimited.
	MaxApplications int `mapstructure:"max_applications" yaml:"max_applications"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "outreach-cli")
	v.SetDefault("logger.log_file", "outreach.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.7049.96 Safari/537.36")
	v.SetDefault("browser.width", 1440)
	v.SetDefault("browser.height", 900)

	// -- Session --
	v.SetDefault("session.element_timeout", "30s")
	v.SetDefault("session.page_settle_min", "3s")
	v.SetDefault("session.page_settle_max", "6s")

	// -- Pacing --
	v.SetDefault("pacing.min_delay", "1s")
	v.SetDefault("pacing.max_delay", "3s")
	v.SetDefault("pacing.actions_per_minute", 0)

	// -- Auth --
	v.SetDefault("auth.use_cookies", true)
	v.SetDefault("auth.login_url", "https://www.linkedin.com/login")
	v.SetDefault("auth.cookie_file", "cookies.json")

	// -- Campaigns --
	v.SetDefault("connection.max_tabs", 3)
	v.SetDefault("connection.max_connections", 60)
	v.SetDefault("jobs.jobs_url", "https://www.linkedin.com/jobs/")
	v.SetDefault("jobs.max_applications", 10)

	setProfileDefaults(v)
	setSelectorDefaults(v)
}

// setProfileDefaults seeds the profile section so the resolver has a stable
// key set to match against. Values stay empty until the user fills them in.
func setProfileDefaults(v *viper.Viper) {
	for _, key := range []string{
		"full_name", "phone", "email", "location", "years_of_experience",
		"work_authorization", "require_sponsorship",
		"education_level", "graduation_date", "field_of_study", "school", "gpa",
		"current_job_title", "current_company", "years_at_current_company", "total_years_experience",
		"technical_skills", "soft_skills", "languages",
		"willing_to_relocate", "remote_preference", "expected_salary",
		"reason_for_leaving", "notice_period", "linkedin_profile",
	} {
		v.SetDefault("profile."+key, "")
	}
}

// NewFromViper builds a validated Config from a viper instance.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".outreach")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Connection.MaxTabs <= 0 {
		return fmt.Errorf("connection.max_tabs must be a positive integer")
	}
	if c.Connection.MaxConnections < 0 {
		return fmt.Errorf("connection.max_connections must not be negative")
	}
	if c.Jobs.MaxApplications < 0 {
		return fmt.Errorf("jobs.max_applications must not be negative")
	}
	if c.Pacing.MinDelay < 0 || c.Pacing.MaxDelay < c.Pacing.MinDelay {
		return fmt.Errorf("pacing delays must satisfy 0 <= min_delay <= max_delay")
	}
	if c.Session.ElementTimeout <= 0 {
		return fmt.Errorf("session.element_timeout must be a positive duration")
	}
	return nil
}

// CookiePath returns the absolute location of the cookie persistence file.
func (c *Config) CookiePath() string {
	if filepath.IsAbs(c.Auth.CookieFile) {
		return c.Auth.CookieFile
	}
	return filepath.Join(c.DataDir, c.Auth.CookieFile)
}
