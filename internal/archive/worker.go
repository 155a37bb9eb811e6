package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"devhub/internal/config"
	"devhub/internal/metrics"
	"devhub/internal/model"
	"devhub/internal/repository"
)

const writeTimeout = 5 * time.Second

// Worker moves evicted notifications into the archive repository off the
// caller's goroutine.
type Worker struct {
	repo    repository.ArchiveRepository
	batches chan []model.Notification
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewWorker(cfg *config.Config, repo repository.ArchiveRepository, m *metrics.Metrics, logger *zap.Logger) *Worker {
	size := cfg.ArchiveBuffer
	if size <= 0 {
		size = 64
	}
	return &Worker{
		repo:    repo,
		batches: make(chan []model.Notification, size),
		metrics: m,
		log:     logger,
	}
}

// Enqueue never blocks; a full buffer drops the batch.
func (w *Worker) Enqueue(batch []model.Notification) {
	if len(batch) == 0 {
		return
	}
	select {
	case w.batches <- batch:
	default:
		w.metrics.ArchiveDropped.Add(float64(len(batch)))
		w.log.Warn("archive buffer full, dropping evicted notifications",
			zap.Int("count", len(batch)),
			zap.Int64("first_id", batch[0].ID),
		)
	}
}

// Run writes batches until ctx is done, then flushes what is already queued.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return
		case batch := <-w.batches:
			w.write(context.Background(), batch)
		}
	}
}

func (w *Worker) flush() {
	for {
		select {
		case batch := <-w.batches:
			w.write(context.Background(), batch)
		default:
			return
		}
	}
}

func (w *Worker) write(ctx context.Context, batch []model.Notification) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := w.repo.ArchiveNotifications(ctx, batch); err != nil {
		w.log.Error("archive notifications failed", zap.Int("count", len(batch)), zap.Error(err))
	}
}
