package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/api/dto"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/service"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// CategoryHandler exposes ticket category management.
type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), &domain.TicketCategory{
		Name:            req.Name,
		Description:     req.Description,
		DefaultPriority: domain.TicketPriority(req.DefaultPriority),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCategory(category))
}

// Update handles PUT /api/categories/:id.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	category, err := h.catalog.UpdateCategory(c.UserContext(), &domain.TicketCategory{
		ID:              c.Params("id"),
		Name:            req.Name,
		Description:     req.Description,
		DefaultPriority: domain.TicketPriority(req.DefaultPriority),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCategory(category))
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get handles GET /api/categories/:id.
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	category, err := h.catalog.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCategory(category))
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCategories(categories))
}
