package notify

import (
	"context"

	"go.uber.org/zap"

	"devhub/internal/archive"
	"devhub/internal/config"
	"devhub/internal/domain"
	"devhub/internal/metrics"
	"devhub/internal/model"
	"devhub/internal/registry"
	"devhub/internal/repository"
)

// Service owns the application's notification registry. There is one per
// App, built by the injector and handed to every component that needs it.
type Service struct {
	store   *registry.Store[model.Payload]
	archive repository.ArchiveRepository
	worker  *archive.Worker
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(cfg *config.Config, repo repository.ArchiveRepository, worker *archive.Worker, m *metrics.Metrics, logger *zap.Logger) *Service {
	s := &Service{archive: repo, worker: worker, metrics: m, log: logger}
	s.store = registry.New[model.Payload](
		registry.WithCapacity[model.Payload](cfg.NotificationCapacity),
		registry.WithLogger[model.Payload](logger),
		registry.WithEvictHandler(s.evicted),
		registry.WithObserverPanicHook[model.Payload](func(any) {
			m.ObserverPanics.Inc()
		}),
	)
	s.store.Subscribe(s.refreshGauges)
	s.metrics.Observers.Set(float64(s.store.Observers()))
	return s
}

// Create validates the payload and appends it to the registry. When no other
// call is delivering snapshots, observers have seen the new list by the time
// Create returns; otherwise the delivering goroutine hands it to them.
func (s *Service) Create(ctx context.Context, payload model.Payload) (model.Notification, error) {
	if err := domain.ValidatePayload(payload); err != nil {
		return model.Notification{}, err
	}
	created := s.store.Append(payload)
	s.metrics.Appended.Inc()
	s.log.Debug("notification appended",
		zap.Int64("id", created.ID),
		zap.String("type", payload.Type),
		zap.String("title", payload.Title),
	)
	return created, nil
}

// MarkRead reports false when id is not in the registry. Unknown ids are not
// an error.
func (s *Service) MarkRead(_ context.Context, id int64) bool {
	before, ok := s.store.Get(id)
	if !ok {
		return false
	}
	if !s.store.MarkRead(id) {
		return false
	}
	if !before.Read {
		s.metrics.MarkedRead.Inc()
	}
	return true
}

func (s *Service) MarkAllRead(_ context.Context) int {
	changed := s.store.MarkAllRead()
	s.metrics.MarkedRead.Add(float64(changed))
	return changed
}

func (s *Service) UnreadCount() int {
	return s.store.UnreadCount()
}

func (s *Service) List() []model.Notification {
	return s.store.All()
}

func (s *Service) Snapshot() model.Snapshot {
	return model.NewSnapshot(s.store.All())
}

// Subscribe registers fn for every change to the registry.
func (s *Service) Subscribe(fn func([]model.Notification)) func() {
	remove := s.store.Subscribe(fn)
	s.metrics.Observers.Set(float64(s.store.Observers()))
	return func() {
		remove()
		s.metrics.Observers.Set(float64(s.store.Observers()))
	}
}

// Observers counts registered observers, the service's own gauge observer
// included.
func (s *Service) Observers() int {
	return s.store.Observers()
}

// History lists archived (evicted) notifications, most recently evicted first.
func (s *Service) History(ctx context.Context, limit int) ([]model.Notification, error) {
	history, err := s.archive.ListArchived(ctx, limit)
	if err != nil {
		s.log.Error("archive list failed", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return history, nil
}

// Close disposes the registry: observers are dropped and no further
// broadcasts happen.
func (s *Service) Close() {
	s.store.Close()
	s.metrics.Observers.Set(0)
}

func (s *Service) evicted(records []model.Notification) {
	s.metrics.Evicted.Add(float64(len(records)))
	s.worker.Enqueue(records)
}

func (s *Service) refreshGauges(items []model.Notification) {
	snap := model.NewSnapshot(items)
	s.metrics.Unread.Set(float64(snap.Unread))
	s.metrics.Stored.Set(float64(len(items)))
}
