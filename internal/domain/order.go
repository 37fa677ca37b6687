package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// StatusPipeline lists every status in the order an order moves through them.
var StatusPipeline = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusDelivered,
}

// Ordinal returns the position of s in StatusPipeline, or -1 for an unknown status.
func (s OrderStatus) Ordinal() int {
	for i, step := range StatusPipeline {
		if step == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Ordinal() >= 0
}

// Label is the buyer-facing name of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Order Received"
	case OrderStatusInProgress:
		return "Out for Delivery"
	case OrderStatusDelivered:
		return "Delivered"
	}
	return string(s)
}

// Progress returns how far along the pipeline s is, in percent.
func (s OrderStatus) Progress() int {
	ord := s.Ordinal()
	if ord < 0 {
		return 0
	}
	return ord * 100 / (len(StatusPipeline) - 1)
}

// CanTransitionTo reports whether next is strictly later in the pipeline than s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, to := s.Ordinal(), next.Ordinal()
	if from < 0 || to < 0 {
		return false
	}
	return to > from
}

type StepState string

const (
	StepComplete StepState = "complete"
	StepActive   StepState = "active"
	StepUpcoming StepState = "upcoming"
)

// StepStateOf classifies a pipeline step relative to the current status.
func StepStateOf(current, step OrderStatus) StepState {
	cur, idx := current.Ordinal(), step.Ordinal()
	switch {
	case idx < cur:
		return StepComplete
	case idx == cur:
		return StepActive
	default:
		return StepUpcoming
	}
}

type OrderItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type Order struct {
	ID        string          `json:"id"`
	BuyerName string          `json:"buyer_name"`
	Contact   string          `json:"contact"`
	Address   string          `json:"address"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// Clone returns a copy of o that shares no memory with it.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}
