package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	EventID   string          `json:"event_id"`
	OrderID   string          `json:"order_id"`
	BuyerName string          `json:"buyer_name"`
	Contact   string          `json:"contact"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	EventID   string      `json:"event_id"`
	OrderID   string      `json:"order_id"`
	BuyerName string      `json:"buyer_name"`
	Contact   string      `json:"contact"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewOrderCreatedEvent(order Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		BuyerName: order.BuyerName,
		Contact:   order.Contact,
		Items:     order.Items,
		Total:     order.Total,
		Timestamp: order.CreatedAt,
	}
}

func NewOrderStatusChangedEvent(order Order, from OrderStatus, at time.Time) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		BuyerName: order.BuyerName,
		Contact:   order.Contact,
		From:      from,
		To:        order.Status,
		Timestamp: at,
	}
}
