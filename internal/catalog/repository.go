package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// AllCategories is the category filter value that matches every product.
const AllCategories = "all"

// CatalogRepository serves the read-only product catalog.
type CatalogRepository struct {
	products []domain.Product
}

func NewCatalogRepository(products []domain.Product) *CatalogRepository {
	return &CatalogRepository{products: slices.Clone(products)}
}

func (r *CatalogRepository) List() []domain.Product {
	return slices.Clone(r.products)
}

func (r *CatalogRepository) Get(id int) (domain.Product, bool) {
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Filter returns the products whose name or description contains query
// (case-insensitive) and whose category is category, keeping catalog order.
func (r *CatalogRepository) Filter(query, category string) []domain.Product {
	q := strings.ToLower(query)

	matched := []domain.Product{}
	for _, p := range r.products {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
		matchesCategory := category == AllCategories || p.Category == category
		if matchesSearch && matchesCategory {
			matched = append(matched, p)
		}
	}
	return matched
}

// Categories returns the distinct product categories in first-seen order.
func (r *CatalogRepository) Categories() []string {
	var categories []string
	for _, p := range r.products {
		if !slices.Contains(categories, p.Category) {
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// Price sums pricePerUnit * quantity over items. It fails with
// ErrProductNotFound on the first item whose product does not exist.
func (r *CatalogRepository) Price(items []domain.OrderItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		p, ok := r.Get(item.ProductID)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
		}
		total = total.Add(p.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}
