//go:build integration

package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/domain"
	"devhub/internal/model"
)

func TestMySQLArchiveIntegration(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, archiveDSN(t, ctx), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	created := time.Now().UTC().Truncate(time.Microsecond)
	err = store.ArchiveNotifications(ctx, []model.Notification{
		{ID: 1, Payload: model.Payload{Type: domain.NotificationTypeInfo, Title: "title", Message: "body"}, CreatedAt: created},
		{ID: 2, Payload: model.Payload{Type: domain.NotificationTypeError, Title: "deploy failed"}, CreatedAt: created, Read: true},
	})
	require.NoError(t, err)

	history, err := store.ListArchived(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, int64(2), history[0].ID)
	require.Equal(t, domain.NotificationTypeError, history[0].Payload.Type)
	require.True(t, history[0].Read)
	require.True(t, history[1].CreatedAt.Equal(created))
}
