package store

import (
	"context"

	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/repository"
	"devhub/internal/store/memory"
	"devhub/internal/store/mysql"
	"devhub/internal/store/sqlite"
)

// NewArchive picks the archive backend: MySQL when MYSQL_DSN is set, SQLite
// when SQLITE_PATH is set, memory otherwise.
func NewArchive(cfg *config.Config, logger *zap.Logger) (repository.ArchiveRepository, error) {
	ctx := context.Background()
	switch {
	case cfg.MySQLDSN != "":
		logger.Info("archive backend", zap.String("driver", "mysql"))
		s, err := mysql.Open(ctx, cfg.MySQLDSN, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case cfg.SQLitePath != "":
		logger.Info("archive backend", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
		s, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(logger), nil
	}
}
