package models

import "github.com/shopspring/decimal"

// VariantStatus is the lifecycle status of a product variant.
type VariantStatus string

const (
	VariantActive       VariantStatus = "active"
	VariantInactive     VariantStatus = "inactive"
	VariantDiscontinued VariantStatus = "discontinued"
)

// Variant represents a sellable variation of a product. ProductID, ColorID
// and SizeID identify the variant and are immutable after creation; the
// backend upserts on a (productId, colorId, sizeId) collision instead of
// rejecting it. Variants are never removed from a product's collection:
// deletion is a status transition to inactive or discontinued.
type Variant struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ColorID       string          `json:"colorId"`
	SizeID        string          `json:"sizeId"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Image         string          `json:"image"`
	Status        VariantStatus   `json:"status"`
}
