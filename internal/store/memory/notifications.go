package memory

import (
	"context"

	"devhub/internal/model"
)

func (s *Store) ArchiveNotifications(_ context.Context, notifications []model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, notifications...)
	return nil
}

func (s *Store) ListArchived(_ context.Context, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Notification
	for i := len(s.records) - 1; i >= 0; i-- {
		result = append(result, s.records[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
