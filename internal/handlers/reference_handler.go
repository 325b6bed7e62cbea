package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
)

// ReferenceHandler serves the cached category/color/size lookup data.
type ReferenceHandler struct {
	service *services.CatalogService
	logger  *zap.Logger
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(service *services.CatalogService, logger *zap.Logger) *ReferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the reference data routes with the Fiber app.
// With includeDeleted=true the listings keep soft-deleted entries for
// historical display; by default they only contain selectable entries.
func (h *ReferenceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.listing(h.service.Categories))
	router.Get("/colors", h.listing(h.service.Colors))
	router.Get("/sizes", h.listing(h.service.Sizes))
	router.Post("/reference/refresh", h.HandleRefresh)
}

func (h *ReferenceHandler) listing(source func(bool) []models.Reference) fiber.Handler {
	return func(c *fiber.Ctx) error {
		includeDeleted := c.QueryBool("includeDeleted")
		return c.JSON(source(includeDeleted))
	}
}

// HandleRefresh reloads the reference data from the backend.
func (h *ReferenceHandler) HandleRefresh(c *fiber.Ctx) error {
	if err := h.service.RefreshReference(c.UserContext()); err != nil {
		h.logger.Error("reference refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not refresh reference data",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Reference data refreshed",
	})
}
