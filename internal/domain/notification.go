package domain

import (
	"errors"
	"unicode/utf8"

	"devhub/internal/model"
)

const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 2000
)

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrMissingTitle            = errors.New("notification title is required")
	ErrPayloadTooLarge         = errors.New("notification payload too large")
)

func IsValidNotificationType(value string) bool {
	switch value {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	default:
		return false
	}
}

// ValidatePayload checks a payload before it enters the registry.
func ValidatePayload(p model.Payload) error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if !IsValidNotificationType(p.Type) {
		return ErrInvalidNotificationType
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength || utf8.RuneCountInString(p.Message) > MaxMessageLength {
		return ErrPayloadTooLarge
	}
	return nil
}
