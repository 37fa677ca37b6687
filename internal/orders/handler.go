package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
	"github.com/joao-fontenele/produce-storefront/internal/latency"
)

type Handler struct {
	service *Service
	delay   *latency.Simulator
	logger  *slog.Logger
}

// NewHandler returns the HTTP handler for orders. delay is applied before
// order creation and lookups; it may be nil.
func NewHandler(service *Service, delay *latency.Simulator, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		delay:   delay,
		logger:  logger,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.delay.Wait(r.Context()); err != nil {
		h.logger.Warn("request cancelled before order creation", "error", err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		if isValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order created", "order_id", order.ID, "buyer_name", order.BuyerName, "total", order.Total.String())
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	if err := h.delay.Wait(r.Context()); err != nil {
		h.logger.Warn("request cancelled before order lookup", "error", err, "id", id)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeNotFound(w, id)
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

// HandleTrack serves the tracking view. The id comes from the path or,
// for /track, from the "id" query parameter.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Please enter an order ID")
		return
	}

	if err := h.delay.Wait(r.Context()); err != nil {
		h.logger.Warn("request cancelled before order lookup", "error", err, "id", id)
		return
	}

	tracking, err := h.service.Track(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to track order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if tracking == nil {
		h.writeNotFound(w, id)
		return
	}

	h.logger.Info("order tracked", "order_id", tracking.OrderID, "status", tracking.Status)
	h.writeJSON(w, http.StatusOK, tracking)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to update order status", "error", err, "id", id)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if order == nil {
		h.writeNotFound(w, id)
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")

	result, err := h.service.SearchOrders(r.Context(), query, status)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "matched", result.Matched, "total", result.Total)
	h.writeJSON(w, http.StatusOK, result)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrNoItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrUnknownProduct)
}

func (h *Handler) writeNotFound(w http.ResponseWriter, id string) {
	h.writeError(w, http.StatusNotFound, "No order found with ID: "+id)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
