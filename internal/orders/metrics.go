package orders

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/joao-fontenele/produce-storefront/internal/orders"

type serviceMetrics struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
	value       metric.Float64Histogram
}

func newServiceMetrics() (*serviceMetrics, error) {
	meter := otel.Meter(instrumentationName)

	created, err := meter.Int64Counter("storefront.orders.created",
		metric.WithDescription("Number of orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter("storefront.orders.status_transitions",
		metric.WithDescription("Number of order status changes"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	value, err := meter.Float64Histogram("storefront.orders.value",
		metric.WithDescription("Total value of placed orders"),
	)
	if err != nil {
		return nil, err
	}

	return &serviceMetrics{
		created:     created,
		transitions: transitions,
		value:       value,
	}, nil
}
