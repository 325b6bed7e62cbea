// Package listing computes the displayed view over the coordinator's product
// and variant collections: conjunctive filtering, status-priority ordering
// and pure-slice pagination.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

// Filter restricts a product listing. Empty dimensions match everything;
// non-empty dimensions are combined conjunctively.
type Filter struct {
	Search     string
	CategoryID string
	Status     string
}

// statusPriority orders products for display: selling products first,
// discontinued last, anything unrecognized at the very end.
var statusPriority = map[string]int{
	"active":       0,
	"available":    1,
	"inactive":     1,
	"pending":      2,
	"discontinued": 3,
}

const unknownPriority = 4

var nameCollator = collate.New(language.Und, collate.IgnoreCase)

// FilterProducts returns the products matching f. The free-text search is a
// case-insensitive substring match over name, description, status and id.
func FilterProducts(products []models.Product, f Filter) []models.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(&p, search) {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p *models.Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search) ||
		strings.Contains(strings.ToLower(string(p.Status)), search) ||
		strings.Contains(strings.ToLower(p.ID), search)
}

// SortProducts orders products in place by status priority, then by
// case-insensitive collated name.
func SortProducts(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		pi := priorityOf(string(products[i].Status))
		pj := priorityOf(string(products[j].Status))
		if pi != pj {
			return pi < pj
		}
		return nameCollator.CompareString(products[i].Name, products[j].Name) < 0
	})
}

func priorityOf(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return unknownPriority
}

// Page describes one page of a listing.
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// PaginateProducts slices one page out of an already filtered and sorted
// sequence. Out-of-range page numbers are clamped, so a filter change that
// shrinks the result set lands the caller on a valid page.
func PaginateProducts(products []models.Product, page, size int) ([]models.Product, Page) {
	if size <= 0 {
		size = 1
	}
	totalPages := (len(products) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(products) {
		start = len(products)
	}
	if end > len(products) {
		end = len(products)
	}

	return products[start:end], Page{
		Number:     page,
		Size:       size,
		TotalItems: len(products),
		TotalPages: totalPages,
	}
}

// FilterVariants returns the variants matching the given status, or all of
// them when status is empty.
func FilterVariants(variants []models.Variant, status string) []models.Variant {
	if status == "" {
		return variants
	}
	out := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if string(v.Status) == status {
			out = append(out, v)
		}
	}
	return out
}
