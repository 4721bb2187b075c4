package kv

import (
	"fmt"

	"fintrack/internal/kv/filekv"
	"fintrack/internal/kv/memkv"
	"fintrack/internal/kv/sqlitekv"
	applog "fintrack/internal/log"
)

// Backend selects a persistence adapter.
type Backend string

const (
	MemoryBackend Backend = "memory"
	FileBackend   Backend = "file"
	SQLiteBackend Backend = "sqlite"
)

// IsValid returns true if the backend type is known.
func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what each adapter needs to open.
type Config struct {
	Backend Backend

	// File backend
	DataDir string

	// SQLite backend
	SQLiteDBPath string
}

// Open creates the store selected by cfg.Backend.
func Open(cfg Config) (Store, error) {
	logger := applog.ForComponent(applog.ComponentStorage)
	switch cfg.Backend {
	case MemoryBackend:
		logger.Info("Initialized memory store", applog.FieldBackend, string(cfg.Backend))
		return memkv.New(), nil
	case FileBackend:
		store, err := filekv.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		logger.Info("Initialized file store",
			applog.FieldBackend, string(cfg.Backend), "data_dir", cfg.DataDir)
		return store, nil
	case SQLiteBackend:
		store, err := sqlitekv.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite store",
			applog.FieldBackend, string(cfg.Backend), "db_path", cfg.SQLiteDBPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
