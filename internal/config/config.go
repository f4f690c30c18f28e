// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Watch    WatchConfig    `yaml:"watch"`
	Banner   BannerConfig   `yaml:"banner"`
	Pushover PushoverConfig `yaml:"pushover"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WatchConfig identifies the course being watched and the sections that
// should never trigger an alert.
type WatchConfig struct {
	Term        string      `yaml:"term"`   // Banner term code, e.g. "202610"
	Course      string      `yaml:"course"` // subject+course combo, e.g. "BUS106"
	PageMaxSize int         `yaml:"page_max_size"`
	Exclusions  []Exclusion `yaml:"exclusions"`
}

// Exclusion declares one section pattern to suppress: sections of the given
// schedule type meeting on one of the listed days at one of the listed
// begin times.
type Exclusion struct {
	ScheduleType string   `yaml:"schedule_type"`
	Days         []string `yaml:"days"`        // monday..friday
	BeginTimes   []string `yaml:"begin_times"` // 4-digit 24h strings, e.g. "0800"
}

// BannerConfig defines the registration site endpoints and HTTP behavior.
type BannerConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// PushoverConfig defines Pushover delivery settings. The credentials are
// normally supplied through ${PUSHOVER_USER_KEY} / ${PUSHOVER_API_TOKEN}
// substitution rather than written into the file.
type PushoverConfig struct {
	UserKey  string `yaml:"user_key"`
	APIToken string `yaml:"api_token"`
	Endpoint string `yaml:"endpoint"`
}

// Configured reports whether both Pushover credentials are present.
func (p *PushoverConfig) Configured() bool {
	return p.UserKey != "" && p.APIToken != ""
}

// MetricsConfig defines the optional Pushgateway target for end-of-run
// metric pushes. Empty URL disables the push.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a fully-defaulted configuration with credentials taken
// from the environment. Used when no config file is given.
func Default() *Config {
	cfg := &Config{
		Pushover: PushoverConfig{
			UserKey:  os.Getenv("PUSHOVER_USER_KEY"),
			APIToken: os.Getenv("PUSHOVER_API_TOKEN"),
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyWatchDefaults(&cfg.Watch)
	applyBannerDefaults(&cfg.Banner)
	applyPushoverDefaults(&cfg.Pushover)
	applyMetricsDefaults(&cfg.Metrics)
	applyLoggingDefaults(&cfg.Logging)
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Term == "" {
		w.Term = "202610"
	}
	if w.Course == "" {
		w.Course = "BUS106"
	}
	if w.PageMaxSize == 0 {
		w.PageMaxSize = 50
	}
	if w.Exclusions == nil {
		w.Exclusions = []Exclusion{
			{
				ScheduleType: "Discussion",
				Days:         []string{"friday"},
				BeginTimes:   []string{"0800", "0900"},
			},
		}
	}
}

func applyBannerDefaults(b *BannerConfig) {
	if b.BaseURL == "" {
		b.BaseURL = "https://registrationssb.ucr.edu/StudentRegistrationSsb/ssb"
	}
	if b.Timeout == 0 {
		b.Timeout = 15 * time.Second
	}
	if b.UserAgent == "" {
		b.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	}
}

func applyPushoverDefaults(p *PushoverConfig) {
	if p.Endpoint == "" {
		p.Endpoint = "https://api.pushover.net/1/messages.json"
	}
}

func applyMetricsDefaults(m *MetricsConfig) {
	if m.Job == "" {
		m.Job = "openseat"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var (
	validDays     = map[string]bool{"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true}
	beginTimeExpr = regexp.MustCompile(`^[0-9]{4}$`)
)

func validate(cfg *Config) error {
	var errs []error

	if cfg.Watch.Term == "" {
		errs = append(errs, fmt.Errorf("watch.term is required"))
	}
	if cfg.Watch.Course == "" {
		errs = append(errs, fmt.Errorf("watch.course is required"))
	}
	if cfg.Watch.PageMaxSize <= 0 {
		errs = append(errs, fmt.Errorf("watch.page_max_size must be positive (got %d)", cfg.Watch.PageMaxSize))
	}
	if cfg.Banner.BaseURL == "" {
		errs = append(errs, fmt.Errorf("banner.base_url is required"))
	}
	if cfg.Banner.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("banner.timeout must be positive (got %s)", cfg.Banner.Timeout))
	}

	for i, ex := range cfg.Watch.Exclusions {
		if ex.ScheduleType == "" {
			errs = append(errs, fmt.Errorf("watch.exclusions[%d].schedule_type is required", i))
		}
		for _, d := range ex.Days {
			if !validDays[d] {
				errs = append(errs, fmt.Errorf(
					"watch.exclusions[%d]: day must be monday..friday (got %q)", i, d,
				))
			}
		}
		for _, bt := range ex.BeginTimes {
			if !beginTimeExpr.MatchString(bt) {
				errs = append(errs, fmt.Errorf(
					"watch.exclusions[%d]: begin time must be a 4-digit string (got %q)", i, bt,
				))
			}
		}
	}

	return errors.Join(errs...)
}
