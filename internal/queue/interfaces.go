package queue

import (
	"context"

	"devhub/internal/model"
)

type Consumer interface {
	Start(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// Ingestor receives payloads decoded from the broker. The notification
// service satisfies it.
type Ingestor interface {
	Create(ctx context.Context, payload model.Payload) (model.Notification, error)
}
