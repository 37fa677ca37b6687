package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	handler := NewHandler(seededRepository(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", handler.HandleListProducts)
	mux.HandleFunc("GET /products/{id}", handler.HandleGetProduct)
	mux.HandleFunc("GET /categories", handler.HandleListCategories)
	return mux
}

func TestHandler_HandleListProducts(t *testing.T) {
	mux := newTestMux(t)

	t.Run("lists every product without filters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var products []domain.Product
		if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(products) != 8 {
			t.Errorf("expected 8 products, got %d", len(products))
		}
	})

	t.Run("applies query and category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?q=apple&category=fruits", nil))

		var products []domain.Product
		if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(products) != 1 || products[0].ID != 2 {
			t.Errorf("expected only product 2, got %+v", products)
		}
	})

	t.Run("returns an empty array when nothing matches", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?q=durian", nil))

		if body := rec.Body.String(); body != "[]\n" {
			t.Errorf("expected empty array, got %q", body)
		}
	})
}

func TestHandler_HandleGetProduct(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"existing product", "/products/3", http.StatusOK},
		{"unknown product", "/products/42", http.StatusNotFound},
		{"non numeric id", "/products/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestHandler_HandleListCategories(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

	var categories []string
	if err := json.NewDecoder(rec.Body).Decode(&categories); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []string{"all", "vegetables", "fruits"}
	if len(categories) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("expected %v, got %v", want, categories)
		}
	}
}
