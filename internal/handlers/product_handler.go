package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/listing"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/refresh", h.HandleRefresh)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns one display page of the filtered and sorted
// product collection.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := listing.Filter{
		Search:     c.Query("search"),
		CategoryID: c.Query("categoryId"),
		Status:     c.Query("status"),
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))

	products, pageInfo := h.service.ListProducts(filter, page)
	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": pageInfo,
	})
}

// HandleGetProduct returns one product with its variants.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	product, variants, ok := h.service.GetProduct(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(fiber.Map{
		"product":  product,
		"variants": variants,
	})
}

// HandleCreateProduct creates a product from a multipart form carrying the
// field values and the staged image files.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := h.parseProductForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(actorContext(c), *input)
	if err != nil {
		h.logger.Warn("product create failed", zap.Error(err))
		return renderServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a product. The form additionally carries the
// kept existing images as a JSON field.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	input, err := h.parseProductForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(actorContext(c), id, *input)
	if err != nil {
		h.logger.Warn("product update failed", zap.String("id", id), zap.Error(err))
		return renderServiceError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes (discontinues) a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(actorContext(c), id); err != nil {
		h.logger.Warn("product delete failed", zap.String("id", id), zap.Error(err))
		return renderServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product discontinued successfully",
	})
}

// HandleRefresh re-fetches the product and variant collections from the
// backend.
func (h *ProductHandler) HandleRefresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.UserContext()); err != nil {
		h.logger.Error("refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not refresh products from the catalog backend",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Products refreshed",
	})
}

func (h *ProductHandler) parseProductForm(c *fiber.Ctx) (*services.ProductInput, error) {
	mainIndex, _ := strconv.Atoi(c.FormValue("mainIndex", "0"))
	input := services.ProductInput{
		Name:        c.FormValue("name"),
		CategoryID:  c.FormValue("categoryId"),
		Description: c.FormValue("description"),
		MainIndex:   mainIndex,
	}

	if existing := c.FormValue("existingImages"); existing != "" {
		var kept []models.ProductImage
		if err := json.Unmarshal([]byte(existing), &kept); err != nil {
			return nil, err
		}
		input.ExistingImages = kept
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	for _, header := range form.File["images"] {
		staged, err := stageUpload(header)
		if err != nil {
			return nil, err
		}
		input.NewImages = append(input.NewImages, staged)
	}
	return &input, nil
}
