package dto

import "devhub/internal/model"

type CreateNotificationRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Source  string `json:"source"`
	Link    string `json:"link"`
}

func (r CreateNotificationRequest) Payload() model.Payload {
	return model.Payload{
		Type:    r.Type,
		Title:   r.Title,
		Message: r.Message,
		Source:  r.Source,
		Link:    r.Link,
	}
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

type MarkReadResponse struct {
	ID   int64 `json:"id"`
	Read bool  `json:"read"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

type HistoryResponse struct {
	Items []model.Notification `json:"items"`
}
