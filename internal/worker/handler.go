package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
	"github.com/joao-fontenele/produce-storefront/internal/notify"
)

var errOrderNotFound = errors.New("order not found")

// NotificationHandler turns order events into buyer notifications.
type NotificationHandler struct {
	notifyServiceURL string
	ordersServiceURL string
	httpClient       *http.Client
	logger           *slog.Logger
}

func NewNotificationHandler(notifyServiceURL, ordersServiceURL string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifyServiceURL: notifyServiceURL,
		ordersServiceURL: ordersServiceURL,
		httpClient:       client,
		logger:           logger,
	}
}

func (h *NotificationHandler) HandleOrderCreated(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}

	h.logger.Info("processing order created event", "order_id", event.OrderID, "event_id", event.EventID)

	msg := notify.SendRequest{
		To:      event.Contact,
		Subject: "Order Received: " + event.OrderID,
		Body: fmt.Sprintf("Thank you for your order, %s. We've received order %s (%d items, total $%s) and will process it shortly.",
			event.BuyerName, event.OrderID, len(event.Items), event.Total.StringFixed(2)),
	}
	if err := h.send(ctx, msg); err != nil {
		return fmt.Errorf("send order received notification: %w", err)
	}

	h.logger.Info("order received notification sent", "order_id", event.OrderID)
	return nil
}

// HandleStatusChanged notifies the buyer of a new status. Events that no
// longer match the order's current status are skipped, so a buyer is not
// told about a stage the order has already left.
func (h *NotificationHandler) HandleStatusChanged(ctx context.Context, payload []byte) error {
	var event domain.OrderStatusChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order status changed event: %w", err)
	}

	h.logger.Info("processing order status changed event",
		"order_id", event.OrderID, "from", event.From, "to", event.To, "event_id", event.EventID)

	order, err := h.fetchOrder(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", event.OrderID, err)
	}

	if order.Status != event.To {
		h.logger.Info("skipping stale status event", "order_id", event.OrderID, "event_status", event.To, "current_status", order.Status)
		return nil
	}

	msg := notify.SendRequest{
		To:      order.Contact,
		Subject: fmt.Sprintf("%s: %s", event.To.Label(), event.OrderID),
		Body:    fmt.Sprintf("Your order %s is now: %s.", event.OrderID, event.To.Label()),
	}
	if err := h.send(ctx, msg); err != nil {
		return fmt.Errorf("send status notification: %w", err)
	}

	h.logger.Info("status notification sent", "order_id", event.OrderID, "status", event.To)
	return nil
}

func (h *NotificationHandler) fetchOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	endpoint := fmt.Sprintf("%s/orders/%s", h.ordersServiceURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errOrderNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders service returned status %d", resp.StatusCode)
	}

	var order domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	return &order, nil
}

func (h *NotificationHandler) send(ctx context.Context, msg notify.SendRequest) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.notifyServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify service returned status %d", resp.StatusCode)
	}

	return nil
}
