package models

// ProductStatus is the lifecycle status of a product.
type ProductStatus string

const (
	ProductPending      ProductStatus = "pending"
	ProductActive       ProductStatus = "active"
	ProductInactive     ProductStatus = "inactive"
	ProductDiscontinued ProductStatus = "discontinued"
)

// ProductImage is one entry of a product's ordered image set.
// At most one image per product carries IsMain at submit time; exactly one
// must carry it when the product has any images at all.
type ProductImage struct {
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

// Product represents a catalog product as served by the upstream catalog
// backend. Products are never hard-deleted; removal is a transition to
// ProductDiscontinued.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CategoryID  string         `json:"categoryId"`
	Description string         `json:"description"`
	Status      ProductStatus  `json:"status"`
	Images      []ProductImage `json:"images"`
}

// MainImage returns the URL of the image flagged as main, falling back to the
// first image, or "" when the product has no images.
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
