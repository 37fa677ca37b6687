package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/produce-storefront/internal/catalog"
	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

var tracer = otel.Tracer(instrumentationName)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrUnknownProduct  = errors.New("unknown product")
)

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Publishers receive order events. A nil publisher disables that event.
type Publishers struct {
	Created       EventPublisher
	StatusChanged EventPublisher
}

type PlaceOrderRequest struct {
	BuyerName string             `json:"buyer_name"`
	Contact   string             `json:"contact"`
	Address   string             `json:"address"`
	Items     []domain.OrderItem `json:"items"`
	// Total is the total the client computed. It is only compared against
	// the catalog price, never stored.
	Total *decimal.Decimal `json:"total,omitempty"`
}

type Service struct {
	store     *OrderStore
	catalog   *catalog.CatalogRepository
	publisher Publishers
	metrics   *serviceMetrics
	logger    *slog.Logger
}

func NewService(store *OrderStore, products *catalog.CatalogRepository, publisher Publishers, logger *slog.Logger) (*Service, error) {
	m, err := newServiceMetrics()
	if err != nil {
		return nil, fmt.Errorf("create order metrics: %w", err)
	}

	return &Service{
		store:     store,
		catalog:   products,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}, nil
}

func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.PlaceOrder")
	defer span.End()

	order, err := s.buildOrder(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if req.Total != nil && !req.Total.Equal(order.Total) {
		s.logger.Warn("client order total differs from catalog price",
			"client_total", req.Total.String(), "computed_total", order.Total.String())
	}

	if err := s.store.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("order.items", len(order.Items)))
	s.metrics.created.Add(ctx, 1)
	s.metrics.value.Record(ctx, order.Total.InexactFloat64())

	if s.publisher.Created != nil {
		event := domain.NewOrderCreatedEvent(*order)
		if err := s.publisher.Created.Publish(ctx, order.ID, event); err != nil {
			s.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	return order, nil
}

// buildOrder validates req and prices it against the catalog. Lines for the
// same product are merged, keeping the position of the first one.
func (s *Service) buildOrder(req PlaceOrderRequest) (*domain.Order, error) {
	order := &domain.Order{
		BuyerName: strings.TrimSpace(req.BuyerName),
		Contact:   strings.TrimSpace(req.Contact),
		Address:   strings.TrimSpace(req.Address),
	}

	switch {
	case order.BuyerName == "":
		return nil, fmt.Errorf("%w: buyer_name", ErrMissingField)
	case order.Contact == "":
		return nil, fmt.Errorf("%w: contact", ErrMissingField)
	case order.Address == "":
		return nil, fmt.Errorf("%w: address", ErrMissingField)
	}

	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	position := make(map[int]int, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d has quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
		if i, ok := position[item.ProductID]; ok {
			if order.Items[i].Quantity > math.MaxInt-item.Quantity {
				return nil, fmt.Errorf("%w: product %d quantity overflows", ErrInvalidQuantity, item.ProductID)
			}
			order.Items[i].Quantity += item.Quantity
			continue
		}
		position[item.ProductID] = len(order.Items)
		order.Items = append(order.Items, item)
	}

	total, err := s.catalog.Price(order.Items)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownProduct, err)
		}
		return nil, err
	}
	order.Total = total

	return order, nil
}

// GetOrder returns the order with id, or nil if there is none.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.GetByID(ctx, id)
}

// SearchResult is the admin view of the order collection.
type SearchResult struct {
	Orders  []domain.Order `json:"orders"`
	Matched int            `json:"matched"`
	Total   int            `json:"total"`
}

func (s *Service) SearchOrders(ctx context.Context, query, status string) (*SearchResult, error) {
	if status == "" {
		status = AllStatuses
	}

	orders, err := s.store.Search(ctx, query, status)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Orders:  orders,
		Matched: len(orders),
		Total:   s.store.Count(),
	}, nil
}

// UpdateStatus moves an order forward in the pipeline. It returns nil if no
// order has that id.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	change, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if change == nil {
		return nil, nil
	}

	s.metrics.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(change.From)),
		attribute.String("to", string(change.Order.Status)),
	))

	if s.publisher.StatusChanged != nil {
		event := domain.NewOrderStatusChangedEvent(change.Order, change.From, time.Now().UTC())
		if err := s.publisher.StatusChanged.Publish(ctx, id, event); err != nil {
			s.logger.Error("failed to publish order status changed event", "error", err, "order_id", id)
		}
	}

	return &change.Order, nil
}
