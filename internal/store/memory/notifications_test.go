package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/model"
)

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	store := New(zap.NewNop())

	require.NoError(t, store.ArchiveNotifications(ctx, []model.Notification{
		{ID: 1, Payload: model.Payload{Title: "first"}},
		{ID: 2, Payload: model.Payload{Title: "second"}},
	}))
	require.NoError(t, store.ArchiveNotifications(ctx, []model.Notification{
		{ID: 3, Payload: model.Payload{Title: "third"}},
	}))

	all, err := store.ListArchived(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(3), all[0].ID)
	require.Equal(t, int64(1), all[2].ID)

	limited, err := store.ListArchived(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, int64(2), limited[1].ID)
}
