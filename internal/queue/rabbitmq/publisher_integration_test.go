//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/domain"
)

func TestPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	cfg := brokerConfig(t, ctx)
	deliveries := tapExchange(t, cfg)
	publisher := NewPublisher(cfg, zap.NewNop())

	payload := map[string]string{
		"type":    domain.NotificationTypeInfo,
		"title":   "title",
		"message": "body",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	err = publisher.Publish(ctx, body, "notification."+domain.NotificationTypeInfo)
	require.NoError(t, err)

	select {
	case msg := <-deliveries:
		var got map[string]string
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		require.Equal(t, payload["title"], got["title"])
		require.Equal(t, payload["type"], got["type"])
		require.NotEmpty(t, msg.MessageId)
		require.Equal(t, "application/json", msg.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for published message")
	}
}
