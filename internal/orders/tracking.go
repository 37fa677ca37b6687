package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

type TrackingStep struct {
	Status domain.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	State  domain.StepState   `json:"state"`
}

type TrackedItem struct {
	ProductID    int             `json:"product_id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// Tracking is what a buyer sees when looking up an order.
type Tracking struct {
	OrderID     string             `json:"order_id"`
	BuyerName   string             `json:"buyer_name"`
	Address     string             `json:"address"`
	Status      domain.OrderStatus `json:"status"`
	StatusLabel string             `json:"status_label"`
	Progress    int                `json:"progress"`
	PlacedAt    time.Time          `json:"placed_at"`
	Steps       []TrackingStep     `json:"steps"`
	Items       []TrackedItem      `json:"items"`
	Total       decimal.Decimal    `json:"total"`
}

// Track returns the tracking view of the order with id, or nil if there is none.
func (s *Service) Track(ctx context.Context, id string) (*Tracking, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	return s.buildTracking(*order), nil
}

func (s *Service) buildTracking(order domain.Order) *Tracking {
	t := &Tracking{
		OrderID:     order.ID,
		BuyerName:   order.BuyerName,
		Address:     order.Address,
		Status:      order.Status,
		StatusLabel: order.Status.Label(),
		Progress:    order.Status.Progress(),
		PlacedAt:    order.CreatedAt,
		Steps:       make([]TrackingStep, 0, len(domain.StatusPipeline)),
		Items:       []TrackedItem{},
		Total:       order.Total,
	}

	for _, step := range domain.StatusPipeline {
		t.Steps = append(t.Steps, TrackingStep{
			Status: step,
			Label:  step.Label(),
			State:  domain.StepStateOf(order.Status, step),
		})
	}

	for _, item := range order.Items {
		p, ok := s.catalog.Get(item.ProductID)
		if !ok {
			s.logger.Warn("order item references unknown product", "order_id", order.ID, "product_id", item.ProductID)
			continue
		}
		t.Items = append(t.Items, TrackedItem{
			ProductID:    p.ID,
			Name:         p.Name,
			ImageURL:     p.ImageURL,
			Quantity:     item.Quantity,
			Unit:         p.Unit,
			PricePerUnit: p.PricePerUnit,
			LineTotal:    p.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return t
}
