package sqlstore

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"devhub/internal/db"
	"devhub/internal/model"
)

func (s *Store) ArchiveNotifications(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := s.queries.WithTx(tx)
	archivedAt := s.now().UTC()
	for _, n := range notifications {
		if _, err := queries.ArchiveNotification(ctx, db.ArchiveNotificationParams{
			NotificationID: n.ID,
			Type:           n.Payload.Type,
			Title:          n.Payload.Title,
			Message:        n.Payload.Message,
			Source:         n.Payload.Source,
			Link:           n.Payload.Link,
			IsRead:         n.Read,
			CreatedAt:      n.CreatedAt.UTC(),
			ArchivedAt:     archivedAt,
		}); err != nil {
			s.log.Error("sql archive notification failed",
				zap.Int64("id", n.ID),
				zap.String("type", n.Payload.Type),
				zap.String("title", n.Payload.Title),
				zap.Error(err),
			)
			return fmt.Errorf("archive notification %d: %w", n.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

func (s *Store) ListArchived(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	rows, err := s.queries.ListArchivedNotifications(ctx, int32(limit))
	if err != nil {
		s.log.Error("sql list archived notifications failed", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}

	result := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.Notification{
			ID: row.NotificationID,
			Payload: model.Payload{
				Type:    row.Type,
				Title:   row.Title,
				Message: row.Message,
				Source:  row.Source,
				Link:    row.Link,
			},
			CreatedAt: row.CreatedAt.UTC(),
			Read:      row.IsRead,
		})
	}
	return result, nil
}
