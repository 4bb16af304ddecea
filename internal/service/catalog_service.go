package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/repository"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// CatalogService manages the reference data tickets hang off: buildings,
// their rooms and the ticket categories. Deleting catalog entries that still
// carry active tickets is refused; active means any status except CLOSED.
type CatalogService struct {
	buildings  repository.BuildingRepository
	rooms      repository.RoomRepository
	categories repository.CategoryRepository
	tickets    repository.TicketRepository
	logger     *zap.Logger
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	BuildingRepo repository.BuildingRepository
	RoomRepo     repository.RoomRepository
	CategoryRepo repository.CategoryRepository
	TicketRepo   repository.TicketRepository
	Logger       *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		buildings:  deps.BuildingRepo,
		rooms:      deps.RoomRepo,
		categories: deps.CategoryRepo,
		tickets:    deps.TicketRepo,
		logger:     logger,
	}
}

// CreateBuilding registers a building.
func (s *CatalogService) CreateBuilding(ctx context.Context, building *domain.Building) (*domain.Building, error) {
	if err := validateBuilding(building); err != nil {
		return nil, err
	}
	if err := s.buildings.Create(ctx, building); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("building created", zap.String("building_id", building.ID), zap.String("name", building.Name))
	return building, nil
}

// UpdateBuilding replaces a building's mutable fields.
func (s *CatalogService) UpdateBuilding(ctx context.Context, building *domain.Building) (*domain.Building, error) {
	if err := validateBuilding(building); err != nil {
		return nil, err
	}
	if err := s.buildings.Update(ctx, building); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("building", map[string]any{"building_id": building.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return building, nil
}

// DeleteBuilding removes a building with no active tickets.
func (s *CatalogService) DeleteBuilding(ctx context.Context, id string) error {
	if _, err := s.GetBuilding(ctx, id); err != nil {
		return err
	}
	active, err := s.tickets.CountActiveByBuilding(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if active > 0 {
		return apperrors.NewConflict("building has active tickets", map[string]any{
			"building_id":    id,
			"active_tickets": active,
		})
	}
	if err := s.buildings.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("building deleted", zap.String("building_id", id))
	return nil
}

// GetBuilding fetches one building.
func (s *CatalogService) GetBuilding(ctx context.Context, id string) (*domain.Building, error) {
	building, err := s.buildings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("building", map[string]any{"building_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return building, nil
}

// ListBuildings lists buildings, optionally active only.
func (s *CatalogService) ListBuildings(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	buildings, err := s.buildings.List(ctx, activeOnly)
	return buildings, apperrors.MapError(err)
}

// CreateRoom registers a room inside a building. A building has at most one
// room per (floor, room number) pair.
func (s *CatalogService) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	if _, err := s.GetBuilding(ctx, room.BuildingID); err != nil {
		return nil, err
	}
	existing, err := s.rooms.GetByLocation(ctx, room.BuildingID, room.Floor, room.RoomNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("room already exists at this location", map[string]any{
			"building_id": room.BuildingID,
			"floor":       room.Floor,
			"room_number": room.RoomNumber,
		})
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// UpdateRoom replaces a room's mutable fields; the building is fixed.
func (s *CatalogService) UpdateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	current, err := s.GetRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.BuildingID = current.BuildingID

	existing, err := s.rooms.GetByLocation(ctx, room.BuildingID, room.Floor, room.RoomNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil && existing.ID != room.ID {
		return nil, apperrors.NewConflict("room already exists at this location", map[string]any{
			"building_id": room.BuildingID,
			"floor":       room.Floor,
			"room_number": room.RoomNumber,
		})
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// DeleteRoom removes a room with no active tickets.
func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return err
	}
	active, err := s.tickets.CountActiveByRoom(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if active > 0 {
		return apperrors.NewConflict("room has active tickets", map[string]any{
			"room_id":        id,
			"active_tickets": active,
		})
	}
	return apperrors.MapError(s.rooms.Delete(ctx, id))
}

// GetRoom fetches one room.
func (s *CatalogService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", map[string]any{"room_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// ListRooms lists a building's rooms ordered by floor then number.
func (s *CatalogService) ListRooms(ctx context.Context, buildingID string) ([]domain.Room, error) {
	if _, err := s.GetBuilding(ctx, buildingID); err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListByBuilding(ctx, buildingID)
	return rooms, apperrors.MapError(err)
}

// CreateCategory registers a category. Names are unique.
func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.TicketCategory) (*domain.TicketCategory, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := s.checkCategoryName(ctx, category.Name, ""); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// UpdateCategory replaces a category's fields. Changing the default priority
// never rewrites existing tickets; it only affects future creations.
func (s *CatalogService) UpdateCategory(ctx context.Context, category *domain.TicketCategory) (*domain.TicketCategory, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, category.ID); err != nil {
		return nil, err
	}
	if err := s.checkCategoryName(ctx, category.Name, category.ID); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category with no active tickets.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	active, err := s.tickets.CountActiveByCategory(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if active > 0 {
		return apperrors.NewConflict("category has active tickets", map[string]any{
			"category_id":    id,
			"active_tickets": active,
		})
	}
	return apperrors.MapError(s.categories.Delete(ctx, id))
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.TicketCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories lists all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	categories, err := s.categories.List(ctx)
	return categories, apperrors.MapError(err)
}

func (s *CatalogService) checkCategoryName(ctx context.Context, name, selfID string) error {
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("category name already in use", map[string]any{"name": name})
	}
	return nil
}

func validateBuilding(building *domain.Building) error {
	details := map[string]any{}
	if strings.TrimSpace(building.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(building.Address) == "" {
		details["address"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid building fields", details)
	}
	return nil
}

func validateRoom(room *domain.Room) error {
	details := map[string]any{}
	if room.BuildingID == "" {
		details["building_id"] = "required"
	}
	if strings.TrimSpace(room.RoomNumber) == "" {
		details["room_number"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid room fields", details)
	}
	return nil
}

func validateCategory(category *domain.TicketCategory) error {
	details := map[string]any{}
	if strings.TrimSpace(category.Name) == "" {
		details["name"] = "required"
	}
	if category.DefaultPriority == "" {
		details["default_priority"] = "required"
	} else if !domain.ValidPriority(category.DefaultPriority) {
		details["default_priority"] = "invalid"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid category fields", details)
	}
	return nil
}
