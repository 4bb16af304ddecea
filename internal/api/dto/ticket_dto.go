package dto

import (
	"time"

	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/service"
)

// CreateTicketRequest is the creation payload. Priority and status are
// optional; omitted values fall back to the category default and OPEN.
type CreateTicketRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	CategoryID          string     `json:"category_id"`
	BuildingID          string     `json:"building_id"`
	RoomID              *string    `json:"room_id,omitempty"`
	Priority            string     `json:"priority,omitempty"`
	Status              string     `json:"status,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// UpdateTicketRequest is a full replacement payload.
type UpdateTicketRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	CategoryID          string     `json:"category_id"`
	BuildingID          string     `json:"building_id"`
	RoomID              *string    `json:"room_id,omitempty"`
	Priority            string     `json:"priority"`
	Status              string     `json:"status"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	ResolutionNotes     string     `json:"resolution_notes,omitempty"`
}

// UpdateStatusRequest moves a ticket to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// AssignTicketRequest names the technician to assign.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AddCommentRequest appends a discussion entry.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddAttachmentRequest records uploaded file metadata.
type AddAttachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`
}

// TicketResponse is the outward ticket shape.
type TicketResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	CategoryID          string     `json:"category_id"`
	Priority            string     `json:"priority"`
	Status              string     `json:"status"`
	ReporterID          string     `json:"reporter_id"`
	AssigneeID          *string    `json:"assignee_id,omitempty"`
	BuildingID          string     `json:"building_id"`
	RoomID              *string    `json:"room_id,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time `json:"actual_completion,omitempty"`
	ResolutionNotes     string     `json:"resolution_notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HistoryEntryResponse is one audit-trail row.
type HistoryEntryResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	OldStatus    *string   `json:"old_status,omitempty"`
	NewStatus    string    `json:"new_status"`
	ChangedBy    string    `json:"changed_by"`
	ChangeReason string    `json:"change_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentResponse is one discussion entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse is one file-metadata row.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	UploaderID  string    `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// MonthlyCountResponse is one trailing-month bucket.
type MonthlyCountResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// FromTicket maps the domain ticket.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		CategoryID:          t.CategoryID,
		Priority:            string(t.Priority),
		Status:              string(t.Status),
		ReporterID:          t.ReporterID,
		AssigneeID:          t.AssigneeID,
		BuildingID:          t.BuildingID,
		RoomID:              t.RoomID,
		EstimatedCompletion: t.EstimatedCompletion,
		ActualCompletion:    t.ActualCompletion,
		ResolutionNotes:     t.ResolutionNotes,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// FromTickets maps a ticket slice.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, FromTicket(&tickets[i]))
	}
	return result
}

// FromHistory maps audit-trail entries.
func FromHistory(entries []domain.TicketStatusHistory) []HistoryEntryResponse {
	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := HistoryEntryResponse{
			ID:           entry.ID,
			TicketID:     entry.TicketID,
			NewStatus:    string(entry.NewStatus),
			ChangedBy:    entry.ChangedByID,
			ChangeReason: entry.ChangeReason,
			CreatedAt:    entry.CreatedAt,
		}
		if entry.OldStatus != nil {
			old := string(*entry.OldStatus)
			resp.OldStatus = &old
		}
		result = append(result, resp)
	}
	return result
}

// FromComment maps one comment.
func FromComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// FromComments maps a comment slice.
func FromComments(comments []domain.Comment) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, FromComment(&comments[i]))
	}
	return result
}

// FromAttachment maps one attachment.
func FromAttachment(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		TicketID:    a.TicketID,
		UploaderID:  a.UploaderID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		StorageKey:  a.StorageKey,
		CreatedAt:   a.CreatedAt,
	}
}

// FromAttachments maps an attachment slice.
func FromAttachments(attachments []domain.Attachment) []AttachmentResponse {
	result := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		result = append(result, FromAttachment(&attachments[i]))
	}
	return result
}

// FromMonthlyCounts maps trailing-month buckets.
func FromMonthlyCounts(counts []service.MonthlyCount) []MonthlyCountResponse {
	result := make([]MonthlyCountResponse, 0, len(counts))
	for _, c := range counts {
		result = append(result, MonthlyCountResponse{Label: c.Label, Count: c.Count})
	}
	return result
}
