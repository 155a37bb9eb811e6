package sse

import (
	"encoding/json"
	"fmt"
	"io"

	"devhub/internal/model"
)

const EventNotifications = "notifications"

// WriteSnapshot writes one SSE frame:
//   - id: monotonically increasing per stream
//   - event: "notifications"
//   - data: {"unread": n, "items": [...]}
func WriteSnapshot(w io.Writer, id uint64, snapshot model.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, EventNotifications, payload)
	return err
}

func WriteHeartbeat(w io.Writer) error {
	_, err := fmt.Fprint(w, ": ping\n\n")
	return err
}
