package domain

import "time"

// Attachment records file metadata uploaded against a ticket. The blob itself
// lives in external storage under StorageKey; only the reference is owned
// (and cascade-deleted) with the ticket.
type Attachment struct {
	ID          string
	TicketID    string
	UploaderID  string
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	CreatedAt   time.Time
}
