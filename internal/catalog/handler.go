package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type Handler struct {
	repo   *CatalogRepository
	logger *slog.Logger
}

func NewHandler(repo *CatalogRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = AllCategories
	}

	products := h.repo.Filter(query, category)

	h.logger.Info("products listed", "query", query, "category", category, "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, ok := h.repo.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, ErrProductNotFound.Error())
		return
	}

	h.logger.Info("product retrieved", "product_id", id)
	h.writeJSON(w, http.StatusOK, product)
}

// HandleListCategories returns the category filter options, starting with
// the AllCategories sentinel.
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{AllCategories}, h.repo.Categories()...)
	h.writeJSON(w, http.StatusOK, categories)
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
