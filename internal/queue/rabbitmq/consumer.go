package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/domain"
	"devhub/internal/model"
	"devhub/internal/queue"
	"devhub/internal/service/notify"
)

const (
	prefetch       = 10
	reconnectDelay = 2 * time.Second
	createTimeout  = 5 * time.Second
)

var errDeliveriesClosed = errors.New("rabbitmq deliveries closed")

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Consumer feeds notifications published by other services into the
// registry.
type Consumer struct {
	url         string
	ingest      queue.Ingestor
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, svc *notify.Service, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, broker ingestion disabled")
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		ingest:      svc,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

// Start consumes until ctx is done. A dropped connection is redialed after
// a short delay; a failed first dial is returned to the caller.
func (r *Consumer) Start(ctx context.Context) error {
	connected := false
	for {
		err := r.consume(ctx, func() { connected = true })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !connected {
			return err
		}
		r.logger.Warn("rabbitmq consumer interrupted, reconnecting",
			zap.Duration("delay", reconnectDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (r *Consumer) consume(ctx context.Context, onReady func()) error {
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	r.setSpanAttributes(span, r.routingKey)
	defer span.End()

	fail := func(status string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return fmt.Errorf("rabbitmq %s: %w", status, err)
	}

	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fail("dial", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fail("channel", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail("qos", err)
	}
	if err := declareExchange(ch, r.exchange); err != nil {
		return fail("exchange declare", err)
	}

	queueInfo, err := ch.QueueDeclare(r.queue, true, false, false, false, nil)
	if err != nil {
		return fail("queue declare", err)
	}
	if err := ch.QueueBind(queueInfo.Name, r.routingKey, r.exchange, false, nil); err != nil {
		return fail("queue bind", err)
	}

	deliveries, err := ch.Consume(queueInfo.Name, r.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fail("consume", err)
	}
	onReady()

	r.logger.Info("RabbitMQ consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errDeliveriesClosed
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

// handleMessage acks anything that can never succeed (bad JSON, invalid
// payload) and requeues everything else. The returned error is an ack
// failure only.
func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	r.setSpanAttributes(span, msg.RoutingKey)
	if msg.MessageId != "" {
		span.SetAttributes(attribute.String("messaging.message_id", msg.MessageId))
	}
	defer span.End()

	var p model.Payload
	if err := json.Unmarshal(msg.Body, &p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.String("message_id", msg.MessageId), zap.Error(err))
		return msg.Ack(false)
	}

	createCtx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()
	created, err := r.ingest.Create(createCtx, p)
	if err != nil {
		span.RecordError(err)
		if isPermanent(err) {
			span.SetStatus(codes.Error, "invalid payload")
			r.logger.Warn("rabbitmq invalid payload dropped",
				zap.String("message_id", msg.MessageId),
				zap.String("type", p.Type),
				zap.String("title", p.Title),
				zap.Error(err),
			)
			return msg.Ack(false)
		}
		span.SetStatus(codes.Error, "create notification failed")
		r.logger.Error("rabbitmq create notification failed", zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
		}
		return nil
	}

	span.SetAttributes(attribute.Int64("notification.id", created.ID))
	return msg.Ack(false)
}

func (r *Consumer) setSpanAttributes(span trace.Span, routingKey string) {
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", routingKey),
	)
}

func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrInvalidNotificationType) ||
		errors.Is(err, domain.ErrMissingTitle) ||
		errors.Is(err, domain.ErrPayloadTooLarge)
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
}
