package domain

import "time"

// TicketCategory classifies tickets and supplies the priority a new ticket
// inherits when none is given. Name is unique.
type TicketCategory struct {
	ID              string
	Name            string
	Description     string
	DefaultPriority TicketPriority
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
