package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/api/dto"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/service"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// BuildingHandler exposes building and room management.
type BuildingHandler struct {
	catalog *service.CatalogService
}

// NewBuildingHandler constructs the handler.
func NewBuildingHandler(catalog *service.CatalogService) *BuildingHandler {
	return &BuildingHandler{catalog: catalog}
}

// Create handles POST /api/buildings.
func (h *BuildingHandler) Create(c *fiber.Ctx) error {
	var req dto.BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	building := buildingFromRequest(req)
	building.Active = true
	if req.Active != nil {
		building.Active = *req.Active
	}
	created, err := h.catalog.CreateBuilding(c.UserContext(), building)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromBuilding(created))
}

// Update handles PUT /api/buildings/:id.
func (h *BuildingHandler) Update(c *fiber.Ctx) error {
	var req dto.BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	current, err := h.catalog.GetBuilding(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	building := buildingFromRequest(req)
	building.ID = current.ID
	building.Active = current.Active
	if req.Active != nil {
		building.Active = *req.Active
	}
	updated, err := h.catalog.UpdateBuilding(c.UserContext(), building)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBuilding(updated))
}

// Delete handles DELETE /api/buildings/:id.
func (h *BuildingHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteBuilding(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get handles GET /api/buildings/:id.
func (h *BuildingHandler) Get(c *fiber.Ctx) error {
	building, err := h.catalog.GetBuilding(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBuilding(building))
}

// List handles GET /api/buildings?active=true.
func (h *BuildingHandler) List(c *fiber.Ctx) error {
	buildings, err := h.catalog.ListBuildings(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBuildings(buildings))
}

// CreateRoom handles POST /api/buildings/:id/rooms.
func (h *BuildingHandler) CreateRoom(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	room, err := h.catalog.CreateRoom(c.UserContext(), &domain.Room{
		BuildingID: c.Params("id"),
		Floor:      req.Floor,
		RoomNumber: req.RoomNumber,
		RoomType:   req.RoomType,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRoom(room))
}

// ListRooms handles GET /api/buildings/:id/rooms.
func (h *BuildingHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.catalog.ListRooms(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRooms(rooms))
}

// UpdateRoom handles PUT /api/rooms/:id.
func (h *BuildingHandler) UpdateRoom(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	room, err := h.catalog.UpdateRoom(c.UserContext(), &domain.Room{
		ID:         c.Params("id"),
		Floor:      req.Floor,
		RoomNumber: req.RoomNumber,
		RoomType:   req.RoomType,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRoom(room))
}

// DeleteRoom handles DELETE /api/rooms/:id.
func (h *BuildingHandler) DeleteRoom(c *fiber.Ctx) error {
	if err := h.catalog.DeleteRoom(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func buildingFromRequest(req dto.BuildingRequest) *domain.Building {
	return &domain.Building{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		ManagerID: req.ManagerID,
	}
}
