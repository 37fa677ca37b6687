package messaging

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
)

func TestHeaderCarrier(t *testing.T) {
	msg := &kafka.Message{
		Headers: []kafka.Header{{Key: contentTypeHeader, Value: []byte(jsonContentType)}},
	}
	carrier := newHeaderCarrier(msg)

	carrier.Set("traceparent", "00-aaaa-bbbb-01")
	carrier.Set("traceparent", "00-cccc-dddd-01")

	assert.Equal(t, "00-cccc-dddd-01", carrier.Get("traceparent"))
	assert.Equal(t, "", carrier.Get("missing"))
	assert.ElementsMatch(t, []string{contentTypeHeader, "traceparent"}, carrier.Keys())
	assert.Len(t, msg.Headers, 2)
}

func TestHeaderCarrier_KeysIgnoreCase(t *testing.T) {
	msg := &kafka.Message{
		Headers: []kafka.Header{{Key: "Traceparent", Value: []byte("00-aaaa-bbbb-01")}},
	}
	carrier := newHeaderCarrier(msg)

	assert.Equal(t, "00-aaaa-bbbb-01", carrier.Get("traceparent"))

	carrier.Set("TRACEPARENT", "00-cccc-dddd-01")
	assert.Len(t, msg.Headers, 1)
	assert.Equal(t, "Traceparent", msg.Headers[0].Key)
	assert.Equal(t, []string{"Traceparent"}, carrier.Keys())
}

func TestHeaderCarrier_PropagatesTraceContext(t *testing.T) {
	msg := &kafka.Message{}
	carrier := newHeaderCarrier(msg)

	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	carrier.Set("traceparent", traceparent)

	var propagator propagation.TraceContext
	ctx := propagator.Extract(t.Context(), carrier)

	out := &kafka.Message{}
	propagator.Inject(ctx, newHeaderCarrier(out))

	assert.Equal(t, traceparent, newHeaderCarrier(out).Get("traceparent"))
}

func TestIsJSONEvent(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"no content type", "", true},
		{"json", "application/json", true},
		{"json with charset", "Application/JSON; charset=utf-8", true},
		{"protobuf", "application/x-protobuf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &kafka.Message{}
			if tt.contentType != "" {
				newHeaderCarrier(msg).Set(contentTypeHeader, tt.contentType)
			}
			assert.Equal(t, tt.want, isJSONEvent(msg))
		})
	}
}
