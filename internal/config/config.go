package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"mail-triage/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"

	DedupAtomic = "atomic"
	DedupQuery  = "query"

	// CacheDisabled as pipeline.cacheSize turns the known-deadline cache off
	CacheDisabled = -1
)

// Load reads the configuration from the specified YAML file, applies defaults and
// environment overrides, and validates the result
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal(configFile, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given file into the process environment.
// A missing file is not an error, and variables already set are left untouched.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func applyDefaults(cfg *models.Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.Driver == DriverSQLite && cfg.Store.Path == "" {
		cfg.Store.Path = "data/mailtriage.db"
	}
	if cfg.Pipeline.Dedup == "" {
		cfg.Pipeline.Dedup = DedupAtomic
	}
	if cfg.Pipeline.CacheSize == 0 {
		cfg.Pipeline.CacheSize = 256
	}
	if cfg.Pipeline.CacheTTL == 0 {
		cfg.Pipeline.CacheTTL = 10 * time.Minute
	}
	if cfg.Imap.MailBox == "" {
		cfg.Imap.MailBox = "INBOX"
	}
	if cfg.Imap.Since == 0 {
		cfg.Imap.Since = 30 * 24 * time.Hour
	}
}

func applyEnv(cfg *models.Config) error {
	if v := os.Getenv("MAILTRIAGE_OWNER"); v != "" {
		cfg.Owner = v
	}
	if v := os.Getenv("MAILTRIAGE_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("MAILTRIAGE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("MAILTRIAGE_FIRESTORE_PROJECT"); v != "" {
		cfg.Store.ProjectID = v
	}
	if v := os.Getenv("MAILTRIAGE_IMAP_PASSWORD"); v != "" {
		cfg.Imap.Password = v
	}
	if v := os.Getenv("MAILTRIAGE_UI_INTERACTIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MAILTRIAGE_UI_INTERACTIVE: %w", err)
		}
		cfg.UI.Interactive = b
	}
	return nil
}

// Validate rejects configurations the application cannot run with
func Validate(cfg *models.Config) error {
	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case DriverFirestore:
		if cfg.Store.ProjectID == "" {
			return fmt.Errorf("store.projectID is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	switch cfg.Pipeline.Dedup {
	case DedupAtomic, DedupQuery:
	default:
		return fmt.Errorf("unknown dedup strategy %q", cfg.Pipeline.Dedup)
	}

	if cfg.Pipeline.CacheSize < CacheDisabled {
		return fmt.Errorf("pipeline.cacheSize must be positive, or %d to disable the cache", CacheDisabled)
	}

	if cfg.Imap.Enabled && (cfg.Imap.Server == "" || cfg.Imap.Login == "") {
		return fmt.Errorf("imap.server and imap.login are required when imap is enabled")
	}
	return nil
}
