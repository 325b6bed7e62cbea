package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/validation"
)

// VariantInput is the submitted variant form. ProductID, ColorID and SizeID
// are only read on create; variant identity is immutable after that. NewImage
// is nil when no file is staged, in which case ExistingImage is preserved on
// edit.
type VariantInput struct {
	ProductID     string
	ColorID       string
	SizeID        string
	Price         string
	StockQuantity string
	NewImage      *uploader.StagedFile
	ExistingImage string
	Status        models.VariantStatus
}

// CreateVariant validates the form, uploads the mandatory image and creates
// the variant on the backend, then re-fetches the owning product's variant
// list so the status derivation sees the change.
func (s *CatalogService) CreateVariant(ctx context.Context, in VariantInput) (*models.Variant, error) {
	if errs := validation.Variant(validation.VariantForm{
		ProductID:     in.ProductID,
		ColorID:       in.ColorID,
		SizeID:        in.SizeID,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		HasNew:        in.NewImage != nil,
	}); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	url, err := s.uploads.UploadOne(ctx, *in.NewImage)
	if err != nil {
		s.logger.Warn("variant image upload failed", zap.Error(err))
		s.notifier.Error("upload.failed", "The variant image could not be uploaded")
		return nil, &UploadError{Message: "The variant image could not be uploaded"}
	}

	price, stock := parseVariantNumbers(in)
	created, err := s.api.CreateVariant(ctx, catalog.VariantPayload{
		ProductID:     in.ProductID,
		ColorID:       in.ColorID,
		SizeID:        in.SizeID,
		Price:         &price,
		StockQuantity: &stock,
		Image:         url,
	})
	if err != nil {
		return nil, s.remoteError(err, remoteVariantError)
	}

	s.reconcileVariants(ctx, created.ProductID, created)

	s.recordAudit(ctx, "create", "variant", created.ID,
		fmt.Sprintf("created variant %s/%s for product %s", created.ColorID, created.SizeID, created.ProductID))
	s.notifier.Success("variant.created", "Variant was created")
	return created, nil
}

// UpdateVariant validates the form and patches the variant; the image upload
// is skipped when nothing new is staged. Status transitions (including the
// soft/hard delete, which is a transition to inactive or discontinued) go
// through here as well.
func (s *CatalogService) UpdateVariant(ctx context.Context, id string, in VariantInput) (*models.Variant, error) {
	if err := s.begin(id); err != nil {
		return nil, err
	}
	defer s.end(id)

	if errs := validation.Variant(validation.VariantForm{
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		HasExisting:   strings.TrimSpace(in.ExistingImage) != "",
		HasNew:        in.NewImage != nil,
		EditMode:      true,
	}); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	image := in.ExistingImage
	if in.NewImage != nil {
		url, err := s.uploads.UploadOne(ctx, *in.NewImage)
		if err != nil {
			s.logger.Warn("variant image upload failed", zap.Error(err))
			s.notifier.Error("upload.failed", "The variant image could not be uploaded")
			return nil, &UploadError{Message: "The variant image could not be uploaded"}
		}
		image = url
	}

	price, stock := parseVariantNumbers(in)
	payload := catalog.VariantPayload{
		Price:         &price,
		StockQuantity: &stock,
		Image:         image,
	}
	if in.Status != "" {
		status := in.Status
		payload.Status = &status
	}

	updated, err := s.api.UpdateVariant(ctx, id, payload)
	if err != nil {
		return nil, s.remoteError(err, remoteVariantError)
	}

	s.reconcileVariants(ctx, updated.ProductID, updated)

	s.recordAudit(ctx, "update", "variant", updated.ID,
		fmt.Sprintf("updated variant %s of product %s", updated.ID, updated.ProductID))
	s.notifier.Success("variant.updated", "Variant was updated")
	return updated, nil
}

// reconcileVariants re-fetches the product's variant list after a mutation;
// if the re-fetch fails, the returned entity is patched in place so the local
// view still reflects the change.
func (s *CatalogService) reconcileVariants(ctx context.Context, productID string, changed *models.Variant) {
	fresh, err := s.api.ListVariants(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to re-fetch variants, patching in place",
			zap.String("productId", productID),
			zap.Error(err))
		list := s.variants[productID]
		replaced := false
		for i := range list {
			if list[i].ID == changed.ID {
				list[i] = *changed
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, *changed)
		}
		s.variants[productID] = list
		return
	}
	s.variants[productID] = fresh
}

// parseVariantNumbers converts the validated price and stock strings. Only
// called after validation has passed.
func parseVariantNumbers(in VariantInput) (decimal.Decimal, int) {
	price, _ := decimal.NewFromString(strings.TrimSpace(in.Price))
	stock, _ := strconv.Atoi(strings.TrimSpace(in.StockQuantity))
	return price, stock
}
