package messaging

import (
	"slices"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
)

const (
	contentTypeHeader = "content-type"
	jsonContentType   = "application/json"
)

var _ propagation.TextMapCarrier = headerCarrier{}

// headerCarrier exposes Kafka message headers to OTel propagators. Keys are
// matched case-insensitively, so a "Traceparent" header set by another
// client still joins the trace.
type headerCarrier struct {
	headers *[]kafka.Header
}

func newHeaderCarrier(msg *kafka.Message) headerCarrier {
	return headerCarrier{headers: &msg.Headers}
}

func (c headerCarrier) index(key string) int {
	return slices.IndexFunc(*c.headers, func(h kafka.Header) bool {
		return strings.EqualFold(h.Key, key)
	})
}

func (c headerCarrier) Get(key string) string {
	if i := c.index(key); i >= 0 {
		return string((*c.headers)[i].Value)
	}
	return ""
}

// Set replaces the first header matching key, or appends one.
func (c headerCarrier) Set(key, value string) {
	if i := c.index(key); i >= 0 {
		(*c.headers)[i].Value = []byte(value)
		return
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		if !slices.ContainsFunc(keys, func(k string) bool { return strings.EqualFold(k, h.Key) }) {
			keys = append(keys, h.Key)
		}
	}
	return keys
}

// isJSONEvent reports whether msg carries a JSON payload. Messages without a
// content type are assumed to be JSON.
func isJSONEvent(msg *kafka.Message) bool {
	ct := newHeaderCarrier(msg).Get(contentTypeHeader)
	if ct == "" {
		return true
	}
	mediaType, _, _ := strings.Cut(ct, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), jsonContentType)
}
