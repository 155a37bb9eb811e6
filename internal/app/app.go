package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"devhub/internal/archive"
	"devhub/internal/config"
	"devhub/internal/queue"
	"devhub/internal/service/notify"
	"devhub/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	svc      *notify.Service
	worker   *archive.Worker
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup

	// streams is the base context of every request; cancelling it ends open
	// SSE streams so the server can drain.
	streams       context.Context
	cancelStreams context.CancelFunc
	workerCtx     context.Context
	stopWorker    context.CancelFunc

	mu      sync.Mutex
	tracing telemetry.ShutdownFunc
}

func NewApp(cfg *config.Config, svc *notify.Service, worker *archive.Worker, consumer queue.Consumer, router *gin.Engine, logger *zap.Logger) *App {
	streams, cancel := context.WithCancel(context.Background())
	workerCtx, stopWorker := context.WithCancel(context.Background())
	return &App{
		cfg:      cfg,
		svc:      svc,
		worker:   worker,
		consumer: consumer,
		server: &http.Server{
			Addr:        cfg.HTTPAddr,
			Handler:     router,
			BaseContext: func(net.Listener) context.Context { return streams },
		},
		logger:        logger,
		streams:       streams,
		cancelStreams: cancel,
		workerCtx:     workerCtx,
		stopWorker:    stopWorker,
		tracing:       func(context.Context) error { return nil },
	}
}

// Run blocks serving HTTP until the server stops. The archive worker and
// the broker consumer run alongside it.
func (a *App) Run(ctx context.Context) error {
	shutdown, err := telemetry.Init(ctx, a.cfg, a.logger)
	if err != nil {
		a.logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	} else {
		a.mu.Lock()
		a.tracing = shutdown
		a.mu.Unlock()
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.worker.Run(a.workerCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.logger.Info("http server listening",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.Int("capacity", a.cfg.NotificationCapacity),
	)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops in dependency order: streams and HTTP first, then the
// registry, then the archive worker (which flushes what eviction queued),
// then tracing.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	a.cancelStreams()
	shutdownErr := a.server.Shutdown(ctx)
	a.svc.Close()
	a.stopWorker()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.mu.Lock()
		tracing := a.tracing
		a.mu.Unlock()
		if err := tracing(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
