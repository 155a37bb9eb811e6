package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/store/memory"
	"devhub/internal/store/sqlstore"
)

func TestNewArchive(t *testing.T) {
	t.Run("memory by default", func(t *testing.T) {
		repo, err := NewArchive(&config.Config{}, zap.NewNop())
		require.NoError(t, err)
		require.IsType(t, &memory.Store{}, repo)
	})

	t.Run("sqlite when path set", func(t *testing.T) {
		repo, err := NewArchive(&config.Config{SQLitePath: filepath.Join(t.TempDir(), "a.db")}, zap.NewNop())
		require.NoError(t, err)
		require.IsType(t, &sqlstore.Store{}, repo)
		require.NoError(t, repo.(*sqlstore.Store).Close())
	})
}
