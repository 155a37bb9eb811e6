package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
	"devhub/internal/store/sqlstore"
)

// Keep in sync with db/schema.sql; SQLite needs its own AUTOINCREMENT syntax.
const schema = `
CREATE TABLE IF NOT EXISTS archived_notifications (
    archive_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    notification_id INTEGER NOT NULL,
    type            TEXT    NOT NULL,
    title           TEXT    NOT NULL,
    message         TEXT    NOT NULL,
    source          TEXT    NOT NULL DEFAULT '',
    link            TEXT    NOT NULL DEFAULT '',
    is_read         INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL,
    archived_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archived_notifications_notification_id
    ON archived_notifications(notification_id);
`

// Open opens (or creates) the SQLite archive at path and applies the schema.
// ":memory:" gives a throwaway database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*sqlstore.Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("sqlite open failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// A single connection keeps ":memory:" on one database and serialises writers.
	conn.SetMaxOpenConns(1)

	if err := initSchema(ctx, conn); err != nil {
		logger.Error("sqlite schema failed", zap.String("path", path), zap.Error(err))
		_ = conn.Close()
		return nil, err
	}
	return sqlstore.New(conn, logger), nil
}

func initSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite apply schema: %w", err)
	}
	return nil
}
