package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"devhub/internal/store/sqlstore"
)

// Open connects to MySQL and checks the connection. The DSN needs
// parseTime=true so DATETIME columns scan into time.Time.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*sqlstore.Store, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	conn.SetConnMaxLifetime(3 * time.Minute)
	conn.SetMaxOpenConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		_ = conn.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return sqlstore.New(conn, logger), nil
}
