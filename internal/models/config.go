package models

import "time"

// Config represents the application configuration
type Config struct {
	Owner    string         `yaml:"owner"`
	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Imap     ImapConfig     `yaml:"imap"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	UI       UIConfig       `yaml:"ui"`
}

// LogConfig selects the logrus level and formatter
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Driver    string `yaml:"driver"` // memory, sqlite or firestore
	Path      string `yaml:"path"`
	ProjectID string `yaml:"projectID"`
}

// PipelineConfig tunes the deadline pipeline
type PipelineConfig struct {
	Dedup     string        `yaml:"dedup"` // atomic or query
	CacheSize int           `yaml:"cacheSize"` // -1 disables the known-deadline cache
	CacheTTL  time.Duration `yaml:"cacheTTL"`
}

// ImapConfig represents the optional IMAP import source
type ImapConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Server    string        `yaml:"server"`
	Login     string        `yaml:"login"`
	Password  string        `yaml:"password"`
	MailBox   string        `yaml:"mailbox"`
	Since     time.Duration `yaml:"since"`
	FetchRate float64       `yaml:"fetchRate"` // messages per second, 0 means unlimited
}

// MetricsConfig enables the prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// UIConfig chooses between the interactive terminal UI and a plain text dump
type UIConfig struct {
	Interactive bool `yaml:"interactive"`
}
