package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Winter Jacket", CategoryID: "outer", Description: "warm and heavy", Status: models.ProductActive},
		{ID: "p2", Name: "Summer Dress", CategoryID: "dress", Description: "light cotton", Status: models.ProductPending},
		{ID: "p3", Name: "Autumn Scarf", CategoryID: "outer", Description: "warm knit", Status: models.ProductDiscontinued},
		{ID: "p4", Name: "Basic Tee", CategoryID: "top", Description: "plain shirt", Status: models.ProductInactive},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterProductsSearch(t *testing.T) {
	products := sampleProducts()

	// Case-insensitive substring over name.
	assert.Equal(t, []string{"p2"}, ids(FilterProducts(products, Filter{Search: "summer"})))
	// Over description.
	assert.Equal(t, []string{"p1", "p3"}, ids(FilterProducts(products, Filter{Search: "WARM"})))
	// Over id.
	assert.Equal(t, []string{"p4"}, ids(FilterProducts(products, Filter{Search: "p4"})))
	// Over status.
	assert.Equal(t, []string{"p3"}, ids(FilterProducts(products, Filter{Search: "discontinued"})))
	// Leading/trailing whitespace is ignored.
	assert.Equal(t, []string{"p2"}, ids(FilterProducts(products, Filter{Search: "  summer  "})))
	// No match.
	assert.Empty(t, FilterProducts(products, Filter{Search: "nonexistent"}))
}

func TestFilterProductsConjunctive(t *testing.T) {
	products := sampleProducts()

	got := FilterProducts(products, Filter{Search: "warm", CategoryID: "outer", Status: "active"})
	assert.Equal(t, []string{"p1"}, ids(got))

	// Same search, different status dimension: no intersection.
	got = FilterProducts(products, Filter{Search: "warm", Status: "pending"})
	assert.Empty(t, got)
}

func TestFilterProductsEmptyFilterMatchesAll(t *testing.T) {
	products := sampleProducts()
	assert.Len(t, FilterProducts(products, Filter{}), len(products))
}

func TestSortProducts(t *testing.T) {
	products := []models.Product{
		{ID: "d", Name: "Delta", Status: models.ProductDiscontinued},
		{ID: "b", Name: "bravo", Status: models.ProductActive},
		{ID: "p", Name: "Papa", Status: models.ProductPending},
		{ID: "a", Name: "Alpha", Status: models.ProductActive},
		{ID: "i", Name: "India", Status: models.ProductInactive},
		{ID: "u", Name: "Uniform", Status: models.ProductStatus("weird")},
	}

	SortProducts(products)

	// active < inactive < pending < discontinued < unknown; names sorted
	// case-insensitively within one band.
	assert.Equal(t, []string{"a", "b", "i", "p", "d", "u"}, ids(products))
}

func TestPaginateProducts(t *testing.T) {
	products := sampleProducts()

	pageItems, page := PaginateProducts(products, 1, 3)
	assert.Len(t, pageItems, 3)
	assert.Equal(t, Page{Number: 1, Size: 3, TotalItems: 4, TotalPages: 2}, page)

	pageItems, page = PaginateProducts(products, 2, 3)
	assert.Len(t, pageItems, 1)
	assert.Equal(t, 2, page.Number)

	// Out-of-range pages are clamped rather than erroring.
	pageItems, page = PaginateProducts(products, 99, 3)
	assert.Len(t, pageItems, 1)
	assert.Equal(t, 2, page.Number)

	_, page = PaginateProducts(products, 0, 3)
	assert.Equal(t, 1, page.Number)

	// Empty input still reports one (empty) page.
	pageItems, page = PaginateProducts(nil, 1, 3)
	assert.Empty(t, pageItems)
	assert.Equal(t, Page{Number: 1, Size: 3, TotalItems: 0, TotalPages: 1}, page)
}

func TestFilterVariants(t *testing.T) {
	variants := []models.Variant{
		{ID: "v1", Status: models.VariantActive},
		{ID: "v2", Status: models.VariantDiscontinued},
		{ID: "v3", Status: models.VariantActive},
	}

	assert.Len(t, FilterVariants(variants, ""), 3)

	active := FilterVariants(variants, "active")
	assert.Len(t, active, 2)
	assert.Equal(t, "v1", active[0].ID)

	assert.Empty(t, FilterVariants(variants, "inactive"))
}
