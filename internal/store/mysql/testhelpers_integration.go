//go:build integration

package mysql

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

// archiveDSN starts a throwaway MySQL with db/schema.sql loaded by the image's
// init scripts and returns a DSN that Open accepts. The database is removed
// when t finishes.
func archiveDSN(t *testing.T, ctx context.Context) string {
	t.Helper()

	const (
		database = "devhub_archive"
		user     = "archiver"
		password = "archiver"
	)

	schema, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "schema.sql"))
	require.NoError(t, err)
	require.FileExists(t, schema)

	archive, err := tcmysql.RunContainer(ctx,
		testcontainers.WithImage("mysql:8.0.36"),
		tcmysql.WithDatabase(database),
		tcmysql.WithUsername(user),
		tcmysql.WithPassword(password),
		tcmysql.WithScripts(schema),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Terminate(context.Background()) })

	host, err := archive.Host(ctx)
	require.NoError(t, err)
	port, err := archive.MappedPort(ctx, nat.Port("3306/tcp"))
	require.NoError(t, err)

	dsn := driver.NewConfig()
	dsn.User = user
	dsn.Passwd = password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(host, port.Port())
	dsn.DBName = database
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	return dsn.FormatDSN()
}
