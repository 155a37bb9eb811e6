//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/archive"
	"devhub/internal/domain"
	"devhub/internal/metrics"
	"devhub/internal/model"
	"devhub/internal/service/notify"
	"devhub/internal/store/memory"
)

func TestConsumerIntegration(t *testing.T) {
	ctx := context.Background()
	cfg := brokerConfig(t, ctx)

	m := metrics.New()
	repo := memory.New(zap.NewNop())
	worker := archive.NewWorker(cfg, repo, m, zap.NewNop())
	svc := notify.NewService(cfg, repo, worker, m, zap.NewNop())
	defer svc.Close()

	received := make(chan []model.Notification, 4)
	unsubscribe := svc.Subscribe(func(items []model.Notification) { received <- items })
	defer unsubscribe()

	consumer := NewConsumer(cfg, svc, zap.NewNop())

	consumeCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()

	require.NoError(t, waitForConsumer(ctx, cfg.RabbitMQURL, cfg.RabbitQueue, 5*time.Second))

	publishNotification(t, cfg.RabbitMQURL, cfg.RabbitExchange, "notification."+domain.NotificationTypeInfo, map[string]string{
		"type":    domain.NotificationTypeInfo,
		"title":   "t",
		"message": "b",
	})

	select {
	case items := <-received:
		require.Len(t, items, 1)
		require.Equal(t, "t", items[0].Payload.Title)
		require.False(t, items[0].Read)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for consumer")
	}

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

func publishNotification(t *testing.T, amqpURL, exchange, routingKey string, payload map[string]string) {
	t.Helper()

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	require.NoError(t, err)

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	err = ch.Publish(exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	require.NoError(t, err)
}

func waitForConsumer(ctx context.Context, amqpURL, queue string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := amqp.Dial(amqpURL)
			if err != nil {
				continue
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				continue
			}
			q, err := ch.QueueInspect(queue)
			_ = ch.Close()
			_ = conn.Close()
			if err != nil {
				continue
			}
			if q.Consumers > 0 {
				return nil
			}
		}
	}
}
