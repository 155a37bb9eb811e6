package repository

import (
	"context"

	"devhub/internal/model"
)

// ArchiveRepository keeps notifications after the registry evicted them.
type ArchiveRepository interface {
	ArchiveNotifications(ctx context.Context, notifications []model.Notification) error
	ListArchived(ctx context.Context, limit int) ([]model.Notification, error)
}
