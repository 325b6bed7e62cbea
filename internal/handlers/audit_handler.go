package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/repositories"
)

// AuditHandler serves the console's audit trail.
type AuditHandler struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(repo repositories.AuditRepository, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes registers the audit routes with the Fiber app.
func (h *AuditHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/audit", h.HandleListAudit)
}

// HandleListAudit returns the most recent audit entries.
func (h *AuditHandler) HandleListAudit(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.repo.List(limit)
	if err != nil {
		h.logger.Error("failed to list audit entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve audit entries",
			"error":   err.Error(),
		})
	}
	return c.JSON(entries)
}
