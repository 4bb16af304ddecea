package domain

import (
	"fmt"
	"time"
)

// Room locates a ticket inside a building. Unique per
// (building, floor, room number).
type Room struct {
	ID         string
	BuildingID string
	Floor      int
	RoomNumber string
	RoomType   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Label renders a short human-readable location.
func (r *Room) Label() string {
	return fmt.Sprintf("Floor %d, Room %s", r.Floor, r.RoomNumber)
}
