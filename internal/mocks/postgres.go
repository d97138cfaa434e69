package mocks

import (
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
)

// MockPostgresStore stands in for the postgres session store in local
// development, backed by SQLite so credentials survive restarts.
type MockPostgresStore struct {
	*storage.SQLiteStore
}

// NewMockPostgresStore opens the SQLite file used in place of postgres
func NewMockPostgresStore(sqliteFile string) (*MockPostgresStore, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development", "file", sqliteFile)

	s, err := storage.NewSQLiteStore(sqliteFile)
	if err != nil {
		return nil, err
	}
	return &MockPostgresStore{SQLiteStore: s}, nil
}
