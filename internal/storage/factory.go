package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kairichard/SGP-Data-Challenge/internal/config"
	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/storage/memory"
	"github.com/kairichard/SGP-Data-Challenge/internal/storage/postgres"
	sqlitestorage "github.com/kairichard/SGP-Data-Challenge/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration. dbLog is the
// zerolog logger handed to the database manager.
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Dependencies{Log: dbLog, LogManager: logManager}), nil
	case "sqlite":
		return sqlitestorage.New(cfg.Sqlite, logManager)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
