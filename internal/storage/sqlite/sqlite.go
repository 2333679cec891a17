// Package sqlitestorage implements the storage.Backend interface using a
// local SQLite file. It wraps the GORM backend via composition; the only
// SQLite-specific concern is creating the file-backed database.
package sqlitestorage

import (
	"fmt"

	"github.com/kairichard/SGP-Data-Challenge/internal/config"
	"github.com/kairichard/SGP-Data-Challenge/internal/database"
	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/storage/postgres"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*postgres.Backend
	path string
}

// New creates a new SQLite storage backend.
func New(cfg config.SqliteConfig, logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.GetSqliteDBStandalone(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	gormBackend := postgres.New(postgres.Dependencies{
		DB:         db,
		LogManager: logManager,
	})

	return &Backend{
		Backend: gormBackend,
		path:    cfg.Path,
	}, nil
}
