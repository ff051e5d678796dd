package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// Config is the flat runtime configuration. Every key can be set from the
// environment by its upper-case name, e.g. SWEEP_DELAY=5s.
type Config struct {
	Port           string `koanf:"port"`
	DBURL          string `koanf:"db_url"`
	JWTSecret      string `koanf:"jwt_secret"`
	JWTExpiryHours int    `koanf:"jwt_expiry_hours"`

	TwilioAccountSID     string `koanf:"twilio_account_sid"`
	TwilioAuthToken      string `koanf:"twilio_auth_token"`
	TwilioPhoneNumber    string `koanf:"twilio_phone_number"`
	TwilioWhatsAppNumber string `koanf:"twilio_whatsapp_number"`

	Timezone    string `koanf:"timezone"`
	AppURL      string `koanf:"app_url"`
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`
	CORSOrigins string `koanf:"cors_origins"` // comma separated

	SweepDelay           time.Duration `koanf:"sweep_delay"`
	SweepMaxReminders    int           `koanf:"sweep_max_reminders"`
	SweepMaxCareLogs     int           `koanf:"sweep_max_care_logs"`
	RemindersAutoAdvance bool          `koanf:"reminders_auto_advance"`
	CareLogRefreshCron   string        `koanf:"care_log_refresh_cron"`
}

func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":                   "8080",
		"jwt_expiry_hours":       24,
		"timezone":               "Local",
		"app_url":                "http://localhost:3000",
		"log_level":              "info",
		"log_format":             "json",
		"cors_origins":           "http://localhost:3000",
		"sweep_delay":            "2s",
		"sweep_max_reminders":    3,
		"sweep_max_care_logs":    2,
		"reminders_auto_advance": false,
		"care_log_refresh_cron":  "0 6 * * *",
	}
}

// Load reads .env if present, then layers the environment over Defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return load(env.Provider("", ".", strings.ToLower))
}

func load(overrides koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if overrides != nil {
		if err := k.Load(overrides, nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBURL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiryHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err))
	}
	if c.SweepDelay < 0 {
		errs = append(errs, errors.New("SWEEP_DELAY must not be negative"))
	}
	if c.SweepMaxReminders < 0 || c.SweepMaxCareLogs < 0 {
		errs = append(errs, errors.New("sweep caps must not be negative"))
	}
	if _, err := cron.ParseStandard(c.CareLogRefreshCron); err != nil {
		errs = append(errs, fmt.Errorf("invalid CARE_LOG_REFRESH_CRON: %w", err))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone; Validate has already rejected bad names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TwilioConfigured reports whether outbound notifications can be sent.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
