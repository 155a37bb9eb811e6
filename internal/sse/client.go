package sse

import (
	"github.com/google/uuid"

	"devhub/internal/model"
)

// Client adapts a registry observer, which runs synchronously inside the
// mutating call, to a stream handler that drains a channel at its own pace.
type Client struct {
	ID string
	Ch chan model.Snapshot
}

func NewClient(buffer int) *Client {
	if buffer <= 0 {
		buffer = 16
	}
	return &Client{
		ID: uuid.NewString(),
		Ch: make(chan model.Snapshot, buffer),
	}
}

// Observe is registered with the notification service. A full channel means
// the client is too slow; it drops the oldest queued snapshot so the newest
// state always gets through.
func (c *Client) Observe(items []model.Notification) {
	snap := model.NewSnapshot(items)
	for {
		select {
		case c.Ch <- snap:
			return
		default:
		}
		select {
		case <-c.Ch:
		default:
		}
	}
}
