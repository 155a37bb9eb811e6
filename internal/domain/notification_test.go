package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"devhub/internal/model"
)

func TestIsValidNotificationType(t *testing.T) {
	t.Run("valid types", func(t *testing.T) {
		valid := []string{
			NotificationTypeInfo,
			NotificationTypeSuccess,
			NotificationTypeWarning,
			NotificationTypeError,
		}
		for _, v := range valid {
			require.True(t, IsValidNotificationType(v), "expected valid type: %s", v)
		}
	})

	t.Run("invalid types", func(t *testing.T) {
		invalid := []string{"", "infoo", "system", "Error", "warning1"}
		for _, v := range invalid {
			require.False(t, IsValidNotificationType(v), "expected invalid type: %s", v)
		}
	})
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload model.Payload
		wantErr error
	}{
		{
			name:    "ok",
			payload: model.Payload{Type: NotificationTypeSuccess, Title: "Repository created"},
		},
		{
			name:    "missing title",
			payload: model.Payload{Type: NotificationTypeInfo},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "bad type",
			payload: model.Payload{Type: "bounty", Title: "t"},
			wantErr: ErrInvalidNotificationType,
		},
		{
			name:    "title too long",
			payload: model.Payload{Type: NotificationTypeInfo, Title: strings.Repeat("é", MaxTitleLength+1)},
			wantErr: ErrPayloadTooLarge,
		},
		{
			name:    "message at limit",
			payload: model.Payload{Type: NotificationTypeInfo, Title: "t", Message: strings.Repeat("x", MaxMessageLength)},
		},
		{
			name:    "message too long",
			payload: model.Payload{Type: NotificationTypeInfo, Title: "t", Message: strings.Repeat("x", MaxMessageLength+1)},
			wantErr: ErrPayloadTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.payload)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
