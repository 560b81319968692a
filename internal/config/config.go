package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// FirestoreCacheStaleTime is the cache stale time used with the firestore
// backend when CACHESTALETIME is unset. Each instance caches on its own, so a
// write handled elsewhere is picked up within this window.
const FirestoreCacheStaleTime = 30 * time.Second

type Config struct {
	ProjectID         string
	LogLevel          string
	Port              string
	RequestTimeout    time.Duration
	StoreBackend      string
	SQLitePath        string
	CacheStaleTime    time.Duration
	CacheFetchTimeout time.Duration
	SignInRedirectURL string

	SMTPHost           string
	SMTPPort           string
	SMTPUsername       string
	SMTPFrom           string
	SMTPPasswordSecret string
}

// New reads the configuration from the environment, and from CONFIGFILE when
// that points at a file.
func New() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if path := v.GetString("configfile"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return Load(v)
}

// Load builds a Config from v, filling defaults for anything unset.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		ProjectID:          v.GetString("projectid"),
		LogLevel:           v.GetString("loglevel"),
		Port:               v.GetString("port"),
		RequestTimeout:     v.GetDuration("requesttimeout"),
		StoreBackend:       v.GetString("storebackend"),
		SQLitePath:         v.GetString("sqlitepath"),
		CacheStaleTime:     v.GetDuration("cachestaletime"),
		CacheFetchTimeout:  v.GetDuration("cachefetchtimeout"),
		SignInRedirectURL:  v.GetString("signinredirecturl"),
		SMTPHost:           v.GetString("smtphost"),
		SMTPPort:           v.GetString("smtpport"),
		SMTPUsername:       v.GetString("smtpusername"),
		SMTPFrom:           v.GetString("smtpfrom"),
		SMTPPasswordSecret: v.GetString("smtppasswordsecret"),
	}
	if cfg.StoreBackend == BackendFirestore && !v.IsSet("cachestaletime") {
		cfg.CacheStaleTime = FirestoreCacheStaleTime
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("requesttimeout", 30*time.Second)
	v.SetDefault("storebackend", BackendFirestore)
	v.SetDefault("sqlitepath", "money-tracker.db")
	v.SetDefault("cachefetchtimeout", 10*time.Second)
	v.SetDefault("smtpport", "587")
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			return errors.New("PROJECTID is required for the firestore backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITEPATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown STOREBACKEND %q", c.StoreBackend)
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		return errors.New("SMTPFROM is required when SMTPHOST is set")
	}
	return nil
}

// SMTPEnabled reports whether sign-in links are mailed rather than logged.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
