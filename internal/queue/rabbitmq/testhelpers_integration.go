//go:build integration

package rabbitmq

import (
	"context"
	"net/url"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"devhub/internal/config"
)

const (
	amqpPort     = "5672/tcp"
	brokerUser   = "devhub"
	brokerSecret = "devhub"
)

// brokerConfig starts a throwaway RabbitMQ and returns a config that points
// the consumer and publisher at it. The broker is removed when t finishes.
func brokerConfig(t *testing.T, ctx context.Context) *config.Config {
	t.Helper()

	broker, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.12-alpine",
			ExposedPorts: []string{amqpPort},
			Env: map[string]string{
				"RABBITMQ_DEFAULT_USER": brokerUser,
				"RABBITMQ_DEFAULT_PASS": brokerSecret,
			},
			WaitingFor: wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = broker.Terminate(context.Background()) })

	endpoint, err := broker.PortEndpoint(ctx, amqpPort, "amqp")
	require.NoError(t, err)
	u, err := url.Parse(endpoint)
	require.NoError(t, err)
	u.User = url.UserPassword(brokerUser, brokerSecret)
	u.Path = "/"

	return &config.Config{
		RabbitMQURL:          u.String(),
		RabbitExchange:       "notifications",
		RabbitQueue:          "notifications.registry.it",
		RabbitRoutingKey:     "notification.*",
		RabbitConsumerTag:    "registry-consumer-it",
		RabbitPublishPrefix:  "notification",
		NotificationCapacity: 50,
	}
}

// tapExchange binds a private queue to the notification exchange and returns
// its deliveries, so a test can see exactly what reached the broker.
func tapExchange(t *testing.T, cfg *config.Config) <-chan amqp.Delivery {
	t.Helper()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)
	require.NoError(t, declareExchange(ch, cfg.RabbitExchange))

	tap, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(tap.Name, cfg.RabbitRoutingKey, cfg.RabbitExchange, false, nil))

	deliveries, err := ch.Consume(tap.Name, "", true, true, false, false, nil)
	require.NoError(t, err)
	return deliveries
}
