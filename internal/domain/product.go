package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are seeded at start-up and never change.
type Product struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Unit         string          `json:"unit"`
	ImageURL     string          `json:"image_url,omitempty"`
}
