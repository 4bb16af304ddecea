package domain

import "time"

// TicketStatusHistory is an immutable audit entry. One entry is written for
// every lifecycle-affecting operation: creation, status change, assignment
// and unassignment. OldStatus is nil only on the creation entry; assignment
// entries carry OldStatus == NewStatus.
type TicketStatusHistory struct {
	ID           string
	TicketID     string
	OldStatus    *TicketStatus
	NewStatus    TicketStatus
	ChangedByID  string
	ChangeReason string
	CreatedAt    time.Time
}

// IsStatusChange reports whether the entry records an actual state move.
func (h *TicketStatusHistory) IsStatusChange() bool {
	return h.OldStatus == nil || *h.OldStatus != h.NewStatus
}
