package services

import (
	"context"
	"fmt"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/validation"
)

// ProductInput is the submitted product form. ExistingImages is the kept
// image list when editing; NewImages are staged files awaiting upload.
// MainIndex is 0-based over existing followed by new images.
type ProductInput struct {
	Name           string
	CategoryID     string
	Description    string
	ExistingImages []models.ProductImage
	NewImages      []uploader.StagedFile
	MainIndex      int
}

// CreateProduct validates the form, uploads the staged images and creates the
// product on the backend. A total upload failure aborts before the backend is
// called; a partial one proceeds with a warning. On success the product is
// appended to the local collection.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if errs := validation.Product(validation.ProductForm{
		Name:           in.Name,
		CategoryID:     in.CategoryID,
		Description:    in.Description,
		ExistingImages: len(in.ExistingImages),
		NewImages:      len(in.NewImages),
		MainIndex:      in.MainIndex,
	}); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	images, err := s.resolveImages(ctx, in)
	if err != nil {
		return nil, err
	}

	created, err := s.api.CreateProduct(ctx, catalog.ProductPayload{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Images:      images,
	})
	if err != nil {
		return nil, s.remoteError(err, func(apiErr *catalog.APIError) *RemoteError {
			return remoteProductError(apiErr, in)
		})
	}

	s.mu.Lock()
	s.products = append(s.products, *created)
	s.variants[created.ID] = nil
	s.mu.Unlock()

	s.recordAudit(ctx, "create", "product", created.ID, fmt.Sprintf("created product %q", created.Name))
	s.notifier.Success("product.created", fmt.Sprintf("Product %q was created", created.Name))
	return created, nil
}

// UpdateProduct runs the same pipeline as CreateProduct but merges newly
// uploaded images after the kept existing list and replaces the local entry
// on success. Overlapping updates for the same product are rejected.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := s.begin(id); err != nil {
		return nil, err
	}
	defer s.end(id)

	if errs := validation.Product(validation.ProductForm{
		Name:           in.Name,
		CategoryID:     in.CategoryID,
		Description:    in.Description,
		ExistingImages: len(in.ExistingImages),
		NewImages:      len(in.NewImages),
		MainIndex:      in.MainIndex,
		EditMode:       true,
	}); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	images, err := s.resolveImages(ctx, in)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateProduct(ctx, id, catalog.ProductPayload{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Images:      images,
	})
	if err != nil {
		return nil, s.remoteError(err, func(apiErr *catalog.APIError) *RemoteError {
			return remoteProductError(apiErr, in)
		})
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	s.recordAudit(ctx, "update", "product", id, fmt.Sprintf("updated product %q", updated.Name))
	s.notifier.Success("product.updated", fmt.Sprintf("Product %q was updated", updated.Name))
	return updated, nil
}

// DeleteProduct soft-deletes a product: the backend marks it discontinued and
// the local entry transitions in place, never leaving the collection.
// Deleting an already discontinued product is a no-op.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	s.mu.RLock()
	var name string
	discontinued := false
	for _, p := range s.products {
		if p.ID == id {
			name = p.Name
			discontinued = p.Status == models.ProductDiscontinued
			break
		}
	}
	s.mu.RUnlock()
	if discontinued {
		return nil
	}

	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.remoteError(err, func(apiErr *catalog.APIError) *RemoteError {
			return &RemoteError{Status: apiErr.Status, Message: statusMessage(apiErr.Status, apiErr.Message)}
		})
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Status = models.ProductDiscontinued
			break
		}
	}
	s.mu.Unlock()

	s.recordAudit(ctx, "delete", "product", id, fmt.Sprintf("discontinued product %q", name))
	s.notifier.Success("product.discontinued", fmt.Sprintf("Product %q was discontinued", name))
	return nil
}

// resolveImages uploads the staged files and assembles the merged image list
// with exactly one main image. The main selection is resolved to a stable
// identity (existing URL or staged-file token) before the upload, so a
// partial failure cannot silently shift it to a neighboring image; if the
// selected main itself fails to upload, the first image wins and the user is
// warned.
func (s *CatalogService) resolveImages(ctx context.Context, in ProductInput) ([]models.ProductImage, error) {
	var mainURL, mainToken string
	if in.MainIndex < len(in.ExistingImages) {
		mainURL = in.ExistingImages[in.MainIndex].URL
	} else {
		mainToken = in.NewImages[in.MainIndex-len(in.ExistingImages)].Token
	}

	results := s.uploads.UploadMany(ctx, in.NewImages)
	uploaded := make([]uploader.UploadResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.URL != "" {
			uploaded = append(uploaded, r)
		}
	}

	if len(in.NewImages) > 0 && len(uploaded) == 0 {
		s.notifier.Error("upload.failed", "None of the images could be uploaded")
		return nil, &UploadError{Message: "None of the images could be uploaded"}
	}
	if len(uploaded) < len(in.NewImages) {
		s.notifier.Warning("upload.partial",
			fmt.Sprintf("%d of %d images failed to upload", len(in.NewImages)-len(uploaded), len(in.NewImages)))
	}

	merged := make([]models.ProductImage, 0, len(in.ExistingImages)+len(uploaded))
	for _, img := range in.ExistingImages {
		merged = append(merged, models.ProductImage{URL: img.URL})
	}
	for _, r := range uploaded {
		merged = append(merged, models.ProductImage{URL: r.URL})
		if mainToken != "" && r.Token == mainToken {
			mainURL = r.URL
		}
	}

	if mainURL == "" {
		mainURL = merged[0].URL
		s.notifier.Warning("upload.main-image",
			"The selected main image failed to upload; the first image was used instead")
	}
	for i := range merged {
		if merged[i].URL == mainURL {
			merged[i].IsMain = true
			break
		}
	}
	return merged, nil
}
