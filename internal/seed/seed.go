// Package seed loads the start-up dataset: the product catalog and the
// orders present when a service boots. State is never written back.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

//go:embed storefront.yaml
var defaultSeed []byte

type Data struct {
	Products []domain.Product
	Orders   []domain.Order
}

type file struct {
	Products []productRecord `yaml:"products"`
	Orders   []orderRecord   `yaml:"orders"`
}

type productRecord struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Category     string `yaml:"category"`
	PricePerUnit string `yaml:"price_per_unit"`
	Unit         string `yaml:"unit"`
	ImageURL     string `yaml:"image_url"`
}

type orderRecord struct {
	ID        string `yaml:"id"`
	BuyerName string `yaml:"buyer_name"`
	Contact   string `yaml:"contact"`
	Address   string `yaml:"address"`
	Status    string `yaml:"status"`
	CreatedAt string `yaml:"created_at"`
	Items     []struct {
		ProductID int `yaml:"product_id"`
		Quantity  int `yaml:"quantity"`
	} `yaml:"items"`
	Total string `yaml:"total"`
}

// Load reads the dataset at path, or the embedded default when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{
		Products: make([]domain.Product, 0, len(f.Products)),
		Orders:   make([]domain.Order, 0, len(f.Orders)),
	}

	seen := make(map[int]bool, len(f.Products))
	for _, p := range f.Products {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true

		price, err := decimal.NewFromString(p.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("product %d: price: %w", p.ID, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("product %d: price must be positive", p.ID)
		}

		data.Products = append(data.Products, domain.Product{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Category:     p.Category,
			PricePerUnit: price,
			Unit:         p.Unit,
			ImageURL:     p.ImageURL,
		})
	}

	seenOrders := make(map[string]bool, len(f.Orders))
	for _, o := range f.Orders {
		if seenOrders[o.ID] {
			return nil, fmt.Errorf("duplicate order id %s", o.ID)
		}
		seenOrders[o.ID] = true

		status := domain.OrderStatus(o.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
		}

		createdAt, err := time.Parse(time.RFC3339, o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("order %s: created_at: %w", o.ID, err)
		}

		total, err := decimal.NewFromString(o.Total)
		if err != nil {
			return nil, fmt.Errorf("order %s: total: %w", o.ID, err)
		}

		items := make([]domain.OrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		data.Orders = append(data.Orders, domain.Order{
			ID:        o.ID,
			BuyerName: o.BuyerName,
			Contact:   o.Contact,
			Address:   o.Address,
			Status:    status,
			CreatedAt: createdAt.UTC(),
			Items:     items,
			Total:     total,
		})
	}

	return data, nil
}
