package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/queue"
)

type noopPublisher struct {
	logger *zap.Logger
}

func (n *noopPublisher) Publish(_ context.Context, payload []byte, routingKey string) error {
	n.logger.Debug("broker disabled, publish skipped",
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

type Publisher struct {
	url      string
	logger   *zap.Logger
	exchange string
}

func NewPublisher(cfg *config.Config, logger *zap.Logger) queue.Publisher {
	if cfg.RabbitMQURL == "" {
		return &noopPublisher{logger: logger}
	}
	return &Publisher{url: cfg.RabbitMQURL, logger: logger, exchange: cfg.RabbitExchange}
}

// Publish sends one persistent JSON message. The trace context of ctx
// travels in the message headers.
func (p *Publisher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareExchange(ch, p.exchange); err != nil {
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	msg := newPublishing(ctx, payload)
	if err := ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.logger.Error("rabbitmq publish failed",
			zap.String("message_id", msg.MessageId),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("rabbitmq message published",
		zap.String("message_id", msg.MessageId),
		zap.String("routing_key", routingKey),
	)
	return nil
}

func newPublishing(ctx context.Context, payload []byte) amqp.Publishing {
	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, amqpHeaderCarrier(headers))
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         payload,
	}
}
