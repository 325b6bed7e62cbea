// Package catalog is the HTTP client for the upstream catalog backend. The
// console never owns product data; every product/variant mutation goes
// through this client and the coordinator reconciles its in-memory view from
// the responses.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

// Session supplies the bearer token attached to every upstream request. It is
// injected rather than reached for ambiently so tests and callers control
// identity explicitly.
type Session interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a Session backed by a fixed service token.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// APIError is a non-2xx response from the backend, carrying the status code
// and the backend's message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.Status, e.Message)
}

// Client calls the catalog backend REST API.
type Client struct {
	http    *http.Client
	baseURL string
	session Session
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, session Session) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		session: session,
	}
}

// do performs one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses become *APIError with the backend's message.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.session.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(res.Body).Decode(&envelope); decodeErr != nil || envelope.Message == "" {
			envelope.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ProductPayload is the create/update body for a product.
type ProductPayload struct {
	Name        string                `json:"name"`
	CategoryID  string                `json:"categoryId"`
	Description string                `json:"description"`
	Images      []models.ProductImage `json:"images"`
}

// VariantPayload is the create/update body for a variant. Pointer fields are
// omitted when unset so PATCH stays partial.
type VariantPayload struct {
	ProductID     string                `json:"productId,omitempty"`
	ColorID       string                `json:"colorId,omitempty"`
	SizeID        string                `json:"sizeId,omitempty"`
	Price         *decimal.Decimal      `json:"price,omitempty"`
	StockQuantity *int                  `json:"stockQuantity,omitempty"`
	Image         string                `json:"image,omitempty"`
	Status        *models.VariantStatus `json:"status,omitempty"`
}

// ListProducts fetches the full product collection.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product and returns the server's entity.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct patches a product and returns the server's entity.
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+id, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct soft-deletes a product (backend marks it discontinued).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// ListVariants fetches all variants of one product.
func (c *Client) ListVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	var variants []models.Variant
	if err := c.do(ctx, http.MethodGet, "/variants?productId="+productID, nil, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// CreateVariant creates a variant. The backend upserts on a
// (productId, colorId, sizeId) collision instead of rejecting it.
func (c *Client) CreateVariant(ctx context.Context, payload VariantPayload) (*models.Variant, error) {
	var variant models.Variant
	if err := c.do(ctx, http.MethodPost, "/variants", payload, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

// UpdateVariant patches a variant and returns the server's entity.
func (c *Client) UpdateVariant(ctx context.Context, id string, payload VariantPayload) (*models.Variant, error) {
	var variant models.Variant
	if err := c.do(ctx, http.MethodPatch, "/variants/"+id, payload, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

// ListCategories fetches the category reference data, soft-deleted entries
// included.
func (c *Client) ListCategories(ctx context.Context) ([]models.Reference, error) {
	return c.listReference(ctx, "/categories")
}

// ListColors fetches the color reference data.
func (c *Client) ListColors(ctx context.Context) ([]models.Reference, error) {
	return c.listReference(ctx, "/colors")
}

// ListSizes fetches the size reference data.
func (c *Client) ListSizes(ctx context.Context) ([]models.Reference, error) {
	return c.listReference(ctx, "/sizes")
}

func (c *Client) listReference(ctx context.Context, path string) ([]models.Reference, error) {
	var refs []models.Reference
	if err := c.do(ctx, http.MethodGet, path, nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
