//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"devhub/internal/app"
	"devhub/internal/archive"
	"devhub/internal/config"
	"devhub/internal/http"
	"devhub/internal/http/controller"
	"devhub/internal/logging"
	"devhub/internal/metrics"
	"devhub/internal/queue/rabbitmq"
	"devhub/internal/service/notify"
	"devhub/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewArchive,
		archive.NewWorker,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
