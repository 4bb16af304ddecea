package domain

import "time"

// Comment is a discussion entry on a ticket. Owned by the ticket and removed
// with it.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}
