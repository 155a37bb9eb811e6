package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"devhub/internal/config"
)

func TestNormalizeOTLPEndpoint(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "collector:4317", want: "collector:4317"},
		{in: "http://collector:4317", want: "collector:4317"},
		{in: "https://otel.example.com:443/v1/traces", want: "otel.example.com:443"},
		{in: "http://", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := normalizeOTLPEndpoint(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), &config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}
