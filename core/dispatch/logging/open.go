package logging

import "fmt"

// Backends accepted by Open.
const (
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// Options selects and configures a LogStore backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open builds the store named by opts.Backend.
func Open(opts Options) (LogStore, error) {
	switch opts.Backend {
	case BackendJSONL, "":
		return NewJSONLStore(opts.Path)
	case BackendRotating:
		return NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
	case BackendSQLite:
		return NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}
