package dto

import (
	"time"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// BuildingRequest creates or replaces a building.
type BuildingRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	ManagerID *string `json:"manager_id,omitempty"`
	Active    *bool   `json:"is_active,omitempty"`
}

// BuildingResponse is the outward building shape.
type BuildingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	ManagerID *string   `json:"manager_id,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomRequest creates or replaces a room.
type RoomRequest struct {
	Floor      int    `json:"floor"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
}

// RoomResponse is the outward room shape.
type RoomResponse struct {
	ID         string    `json:"id"`
	BuildingID string    `json:"building_id"`
	Floor      int       `json:"floor"`
	RoomNumber string    `json:"room_number"`
	RoomType   string    `json:"room_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryRequest creates or replaces a ticket category.
type CategoryRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DefaultPriority string `json:"default_priority"`
}

// CategoryResponse is the outward category shape.
type CategoryResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultPriority string    `json:"default_priority"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromBuilding maps one building.
func FromBuilding(b *domain.Building) BuildingResponse {
	return BuildingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		City:      b.City,
		State:     b.State,
		ZipCode:   b.ZipCode,
		ManagerID: b.ManagerID,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromBuildings maps a building slice.
func FromBuildings(buildings []domain.Building) []BuildingResponse {
	result := make([]BuildingResponse, 0, len(buildings))
	for i := range buildings {
		result = append(result, FromBuilding(&buildings[i]))
	}
	return result
}

// FromRoom maps one room.
func FromRoom(r *domain.Room) RoomResponse {
	return RoomResponse{
		ID:         r.ID,
		BuildingID: r.BuildingID,
		Floor:      r.Floor,
		RoomNumber: r.RoomNumber,
		RoomType:   r.RoomType,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromRooms maps a room slice.
func FromRooms(rooms []domain.Room) []RoomResponse {
	result := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, FromRoom(&rooms[i]))
	}
	return result
}

// FromCategory maps one category.
func FromCategory(c *domain.TicketCategory) CategoryResponse {
	return CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		DefaultPriority: string(c.DefaultPriority),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// FromCategories maps a category slice.
func FromCategories(categories []domain.TicketCategory) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, FromCategory(&categories[i]))
	}
	return result
}
