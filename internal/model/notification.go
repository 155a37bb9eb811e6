package model

import "devhub/internal/registry"

type Payload struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`
	Link    string `json:"link,omitempty"`
}

type Notification = registry.Record[Payload]

type Snapshot struct {
	Unread int            `json:"unread"`
	Items  []Notification `json:"items"`
}

func NewSnapshot(items []Notification) Snapshot {
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	if items == nil {
		items = []Notification{}
	}
	return Snapshot{Unread: unread, Items: items}
}
