package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
	"github.com/joao-fontenele/produce-storefront/internal/latency"
)

func newTestMux(t *testing.T, delay *latency.Simulator) *http.ServeMux {
	t.Helper()
	service, _ := newTestService(t, Publishers{})
	handler := NewHandler(service, delay, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", handler.HandleList)
	mux.HandleFunc("POST /orders", handler.HandleCreate)
	mux.HandleFunc("GET /orders/{id}", handler.HandleGet)
	mux.HandleFunc("GET /orders/{id}/tracking", handler.HandleTrack)
	mux.HandleFunc("PATCH /orders/{id}/status", handler.HandleUpdateStatus)
	mux.HandleFunc("GET /track", handler.HandleTrack)
	return mux
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp["error"]
}

func TestHandler_CreateTrackAndUpdate(t *testing.T) {
	mux := newTestMux(t, nil)

	body := `{"buyer_name":"Acme","contact":"555-0000","address":"1 Rd","items":[{"product_id":1,"quantity":10}],"total":"19.90"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created domain.Order
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID != "ORD-2023-004" {
		t.Errorf("expected ORD-2023-004, got %s", created.ID)
	}
	if created.Status != domain.OrderStatusPending {
		t.Errorf("expected PENDING, got %s", created.Status)
	}
	if created.Total.StringFixed(2) != "19.90" {
		t.Errorf("expected total 19.90, got %s", created.Total)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/"+created.ID+"/status",
		strings.NewReader(`{"status":"IN_PROGRESS"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track?id="+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var tracking Tracking
	if err := json.NewDecoder(rec.Body).Decode(&tracking); err != nil {
		t.Fatalf("failed to decode tracking: %v", err)
	}
	if tracking.Status != domain.OrderStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", tracking.Status)
	}
	if tracking.Progress != 50 {
		t.Errorf("expected progress 50, got %d", tracking.Progress)
	}
}

func TestHandler_HandleCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"invalid json", `{`, http.StatusBadRequest, "invalid request body"},
		{"missing buyer", `{"contact":"1","address":"x","items":[{"product_id":1,"quantity":1}]}`, http.StatusBadRequest, "missing required field: buyer_name"},
		{"no items", `{"buyer_name":"a","contact":"1","address":"x","items":[]}`, http.StatusBadRequest, "order has no items"},
		{"unknown product", `{"buyer_name":"a","contact":"1","address":"x","items":[{"product_id":9,"quantity":1}]}`, http.StatusBadRequest, "unknown product: product not found: 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(t, nil)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.message {
				t.Errorf("expected %q, got %q", tt.message, got)
			}
		})
	}
}

func TestHandler_HandleGet(t *testing.T) {
	mux := newTestMux(t, nil)

	t.Run("returns a seeded order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/ORD-2023-001", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.BuyerName != "Green Leaf Restaurant" {
			t.Errorf("unexpected buyer: %s", order.BuyerName)
		}
	})

	t.Run("not found message names the id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/ORD-2023-999", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if got := errorMessage(t, rec); got != "No order found with ID: ORD-2023-999" {
			t.Errorf("unexpected message: %s", got)
		}
	})
}

func TestHandler_HandleTrack(t *testing.T) {
	mux := newTestMux(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"by path", "/orders/ORD-2023-003/tracking", http.StatusOK},
		{"by query parameter", "/track?id=ORD-2023-001", http.StatusOK},
		{"missing id", "/track", http.StatusBadRequest},
		{"blank id", "/track?id=%20%20", http.StatusBadRequest},
		{"unknown id", "/track?id=ORD-2023-404", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_HandleUpdateStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"forward transition", "/orders/ORD-2023-003/status", `{"status":"IN_PROGRESS"}`, http.StatusOK},
		{"backward transition", "/orders/ORD-2023-001/status", `{"status":"PENDING"}`, http.StatusConflict},
		{"unknown status", "/orders/ORD-2023-003/status", `{"status":"LOST"}`, http.StatusBadRequest},
		{"unknown order", "/orders/ORD-2023-404/status", `{"status":"DELIVERED"}`, http.StatusNotFound},
		{"invalid body", "/orders/ORD-2023-003/status", `nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(t, nil)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, tt.path, strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_HandleList(t *testing.T) {
	mux := newTestMux(t, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?status=DELIVERED", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var result SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Matched != 1 || result.Total != 3 {
		t.Errorf("expected 1 of 3 orders, got %d of %d", result.Matched, result.Total)
	}
	if result.Orders[0].ID != "ORD-2023-001" {
		t.Errorf("unexpected order: %s", result.Orders[0].ID)
	}
}

func TestHandler_DelayHonorsCancellation(t *testing.T) {
	mux := newTestMux(t, latency.New(5*time.Second, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	body := `{"buyer_name":"Acme","contact":"555-0000","address":"1 Rd","items":[{"product_id":1,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()

	start := time.Now()
	mux.ServeHTTP(rec, req)

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("handler waited %s after cancellation", elapsed)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	var result SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("cancelled request must not create an order, have %d orders", result.Total)
	}
}
