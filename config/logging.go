package config

import (
	"fmt"

	"github.com/kilianp07/gridmix/core/dispatch/logging"
)

// BackendNone disables the dispatch log store.
const BackendNone = "none"

// LoggingConfig defines settings for dispatch log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = logging.BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case logging.BackendSQLite:
			c.Path = "dispatch.db"
		default:
			c.Path = "dispatch.jsonl"
		}
	}
	if c.Backend == logging.BackendRotating && c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case logging.BackendJSONL, logging.BackendRotating, logging.BackendSQLite, BackendNone:
	default:
		return fmt.Errorf("logging.backend: unknown backend %s", c.Backend)
	}
	if c.Backend != BackendNone && c.Path == "" {
		return fmt.Errorf("logging.path is required")
	}
	return nil
}

// Enabled reports whether dispatch runs are persisted.
func (c LoggingConfig) Enabled() bool { return c.Backend != BackendNone }

// Open builds the configured store.
func (c LoggingConfig) Open() (logging.LogStore, error) {
	return logging.Open(logging.Options{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	})
}
