package sqlstore

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
	"devhub/internal/db"
)

// Store archives notifications through the sqlc queries. The queries use
// positional "?" parameters, so the same Store serves MySQL and SQLite.
type Store struct {
	conn    *sql.DB
	queries *db.Queries
	now     func() time.Time
	log     *zap.Logger
}

func New(conn *sql.DB, logger *zap.Logger) *Store {
	return &Store{conn: conn, queries: db.New(conn), now: time.Now, log: logger}
}

func (s *Store) Close() error {
	return s.conn.Close()
}
