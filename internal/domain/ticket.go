package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusOnHold     TicketStatus = "ON_HOLD"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidStatus reports whether s is one of the defined lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusOnHold,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a defined priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// MaxTitleLen bounds ticket titles.
const MaxTitleLen = 200

// Ticket is the aggregate for reported facility issues.
type Ticket struct {
	ID                  string
	Title               string
	Description         string
	CategoryID          string
	Priority            TicketPriority
	Status              TicketStatus
	ReporterID          string
	AssigneeID          *string
	BuildingID          string
	RoomID              *string
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
	ResolutionNotes     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsOverdue reports whether the ticket is past its estimated completion.
// Tickets without an estimate are never overdue, regardless of status.
func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.EstimatedCompletion == nil {
		return false
	}
	if t.Status != TicketStatusOpen && t.Status != TicketStatusInProgress {
		return false
	}
	return t.EstimatedCompletion.Before(now)
}

// IsDueSoon reports whether the estimated completion falls within [now, now+window].
func (t *Ticket) IsDueSoon(now time.Time, window time.Duration) bool {
	if t.EstimatedCompletion == nil {
		return false
	}
	if t.Status != TicketStatusOpen && t.Status != TicketStatusInProgress {
		return false
	}
	est := *t.EstimatedCompletion
	return !est.Before(now) && !est.After(now.Add(window))
}

// IsAssigned reports whether a technician is assigned.
func (t *Ticket) IsAssigned() bool {
	return t.AssigneeID != nil
}

// IsActive reports whether the ticket still counts toward active workload.
// Active means any status except CLOSED.
func (t *Ticket) IsActive() bool {
	return t.Status != TicketStatusClosed
}
