package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
)

// VariantHandler handles HTTP requests for product variants.
type VariantHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewVariantHandler creates a new VariantHandler.
func NewVariantHandler(service *services.CatalogService, logger *zap.Logger) *VariantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VariantHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the variant routes with the Fiber app.
func (h *VariantHandler) RegisterRoutes(router fiber.Router) {
	variantRoutes := router.Group("/variants")
	variantRoutes.Get("/", h.HandleListVariants)
	variantRoutes.Post("/", h.HandleCreateVariant)
	variantRoutes.Patch("/:id", h.HandleUpdateVariant)
}

// variantQuery is the query surface for the variant listing.
type variantQuery struct {
	ProductID string `query:"productId" validate:"required"`
	Status    string `query:"status"`
}

// HandleListVariants returns the variants of one product, optionally
// filtered by status.
func (h *VariantHandler) HandleListVariants(c *fiber.Ctx) error {
	var q variantQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}

	return c.JSON(h.service.Variants(q.ProductID, q.Status))
}

// HandleCreateVariant creates a variant from a multipart form; the image
// file is mandatory.
func (h *VariantHandler) HandleCreateVariant(c *fiber.Ctx) error {
	input := services.VariantInput{
		ProductID:     c.FormValue("productId"),
		ColorID:       c.FormValue("colorId"),
		SizeID:        c.FormValue("sizeId"),
		Price:         c.FormValue("price"),
		StockQuantity: c.FormValue("stockQuantity"),
	}
	staged, err := h.stagedImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	input.NewImage = staged

	variant, err := h.service.CreateVariant(actorContext(c), input)
	if err != nil {
		h.logger.Warn("variant create failed", zap.Error(err))
		return renderServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// HandleUpdateVariant updates a variant. Color and size are immutable;
// a staged image replaces the existing one, otherwise the existing URL is
// kept. Soft and hard deletion arrive here as status transitions.
func (h *VariantHandler) HandleUpdateVariant(c *fiber.Ctx) error {
	id := c.Params("id")
	input := services.VariantInput{
		Price:         c.FormValue("price"),
		StockQuantity: c.FormValue("stockQuantity"),
		ExistingImage: c.FormValue("existingImage"),
		Status:        models.VariantStatus(c.FormValue("status")),
	}
	staged, err := h.stagedImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	input.NewImage = staged

	variant, err := h.service.UpdateVariant(actorContext(c), id, input)
	if err != nil {
		h.logger.Warn("variant update failed", zap.String("id", id), zap.Error(err))
		return renderServiceError(c, err)
	}
	return c.JSON(variant)
}

// stagedImage extracts the optional "image" file from the multipart form.
func (h *VariantHandler) stagedImage(c *fiber.Ctx) (*uploader.StagedFile, error) {
	header, err := c.FormFile("image")
	if err != nil {
		// No file staged is a valid state; the domain validator decides
		// whether that is acceptable for the operation.
		return nil, nil
	}
	staged, err := stageUpload(header)
	if err != nil {
		return nil, err
	}
	return &staged, nil
}
