package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/listing"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/repositories"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
)

// CatalogService is the product/variant coordinator. It owns the in-memory
// product collection, the productId→variants map and the reference data
// cache; nothing below it mutates that state. All mutating operations go
// validate → upload → backend → reconcile, and overlapping submits for the
// same entity are rejected through a per-entity in-flight guard.
type CatalogService struct {
	api      *catalog.Client
	uploads  *uploader.Uploader
	notifier Notifier
	audit    repositories.AuditRepository
	logger   *zap.Logger
	pageSize int

	mu         sync.RWMutex
	products   []models.Product
	variants   map[string][]models.Variant
	categories []models.Reference
	colors     []models.Reference
	sizes      []models.Reference
	inflight   map[string]struct{}
}

// NewCatalogService creates the coordinator with its collaborators injected.
func NewCatalogService(api *catalog.Client, uploads *uploader.Uploader, notifier Notifier, audit repositories.AuditRepository, logger *zap.Logger, pageSize int) *CatalogService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &CatalogService{
		api:      api,
		uploads:  uploads,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
		pageSize: pageSize,
		variants: make(map[string][]models.Variant),
		inflight: make(map[string]struct{}),
	}
}

// Refresh replaces the product collection and every product's variant list
// from the backend.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh products: %w", err)
	}
	variants := make(map[string][]models.Variant, len(products))
	for _, p := range products {
		vs, err := s.api.ListVariants(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to refresh variants for product %s: %w", p.ID, err)
		}
		variants[p.ID] = vs
	}

	s.mu.Lock()
	s.products = products
	s.variants = variants
	s.mu.Unlock()
	return nil
}

// RefreshReference reloads the category/color/size lookup data.
func (s *CatalogService) RefreshReference(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh categories: %w", err)
	}
	colors, err := s.api.ListColors(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh colors: %w", err)
	}
	sizes, err := s.api.ListSizes(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh sizes: %w", err)
	}

	s.mu.Lock()
	s.categories = categories
	s.colors = colors
	s.sizes = sizes
	s.mu.Unlock()
	return nil
}

// ListProducts returns one display page of the filtered, sorted product
// collection. Products carry their effective (derived) status.
func (s *CatalogService) ListProducts(f listing.Filter, page int) ([]models.Product, listing.Page) {
	s.mu.RLock()
	snapshot := s.projectedLocked()
	s.mu.RUnlock()

	filtered := listing.FilterProducts(snapshot, f)
	listing.SortProducts(filtered)
	return listing.PaginateProducts(filtered, page, s.pageSize)
}

// GetProduct returns one product with effective status plus its variants.
func (s *CatalogService) GetProduct(id string) (*models.Product, []models.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			vs := s.variants[p.ID]
			p.Status = models.DeriveProductStatus(p.Status, vs)
			p.Images = append([]models.ProductImage(nil), p.Images...)
			out := append([]models.Variant(nil), vs...)
			return &p, out, true
		}
	}
	return nil, nil, false
}

// Variants returns a product's variants, optionally filtered by status.
func (s *CatalogService) Variants(productID, status string) []models.Variant {
	s.mu.RLock()
	vs := append([]models.Variant(nil), s.variants[productID]...)
	s.mu.RUnlock()
	return listing.FilterVariants(vs, status)
}

// Categories returns the cached category reference data. Soft-deleted entries
// are kept for historical display and dropped for selection listings.
func (s *CatalogService) Categories(includeDeleted bool) []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterReference(s.categories, includeDeleted)
}

// Colors returns the cached color reference data.
func (s *CatalogService) Colors(includeDeleted bool) []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterReference(s.colors, includeDeleted)
}

// Sizes returns the cached size reference data.
func (s *CatalogService) Sizes(includeDeleted bool) []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterReference(s.sizes, includeDeleted)
}

func filterReference(refs []models.Reference, includeDeleted bool) []models.Reference {
	out := make([]models.Reference, 0, len(refs))
	for _, r := range refs {
		if !includeDeleted && r.IsDeleted {
			continue
		}
		out = append(out, r)
	}
	return out
}

// projectedLocked copies the product collection with the status derivation
// applied. Caller holds at least the read lock.
func (s *CatalogService) projectedLocked() []models.Product {
	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		p.Status = models.DeriveProductStatus(p.Status, s.variants[p.ID])
		p.Images = append([]models.ProductImage(nil), p.Images...)
		out[i] = p
	}
	return out
}

// begin claims the in-flight slot for an entity; end releases it.
func (s *CatalogService) begin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return ErrOperationInFlight
	}
	s.inflight[id] = struct{}{}
	return nil
}

func (s *CatalogService) end(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// recordAudit writes an audit entry for a completed mutation. Audit failures
// are logged, never propagated into the operation result.
func (s *CatalogService) recordAudit(ctx context.Context, action, entityType, entityID, detail string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		Actor:      ActorFrom(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.audit.Record(entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action", action),
			zap.String("entity", entityID),
			zap.Error(err))
	}
}

// remoteError converts a catalog client error into the coordinator's
// structured taxonomy. Context cancellation passes through untouched so
// callers can tell an abandoned request from a failed one.
func (s *CatalogService) remoteError(err error, mapAPIError func(*catalog.APIError) *RemoteError) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		return mapAPIError(apiErr)
	}
	s.logger.Error("catalog request failed", zap.Error(err))
	return &RemoteError{Message: "Could not reach the server, please try again"}
}
