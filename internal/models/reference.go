package models

// Reference is a catalog lookup entry (category, color or size). Soft-deleted
// entries stay visible in historical data but are excluded from selection
// listings.
type Reference struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted"`
}
