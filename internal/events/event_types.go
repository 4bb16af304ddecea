package events

import (
	"time"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketCommented     EventType = "ticket_commented"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted after a successful lifecycle call.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	BuildingID string                `json:"building_id"`
	CategoryID string                `json:"category_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// TicketAssignedPayload payload. AssigneeID is nil on unassignment.
type TicketAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	CommentID   string `json:"comment_id"`
	AuthorID    string `json:"author_id"`
	TextPreview string `json:"text_preview"`
}
