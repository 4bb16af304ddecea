package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/cache"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/events"
	"github.com/buildingops/maintenance-service/internal/repository"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// TicketService is the lifecycle engine: it owns ticket creation, updates,
// status transitions, assignment and the derived overdue/statistics queries.
// Every mutation pairs the ticket write with its status-history append inside
// one transaction; a failed history append rolls the whole operation back.
type TicketService struct {
	tx          repository.TxRunner
	tickets     repository.TicketRepository
	history     repository.TicketHistoryRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	categories  repository.CategoryRepository
	buildings   repository.BuildingRepository
	rooms       repository.RoomRepository
	users       repository.UserRepository
	cache       *cache.TicketCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	clock       func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Tx             repository.TxRunner
	TicketRepo     repository.TicketRepository
	HistoryRepo    repository.TicketHistoryRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	CategoryRepo   repository.CategoryRepository
	BuildingRepo   repository.BuildingRepository
	RoomRepo       repository.RoomRepository
	UserRepo       repository.UserRepository
	Cache          *cache.TicketCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// TicketCreateInput describes ticket creation payload. Priority and Status
// are optional: priority falls back to the category default, status to OPEN.
type TicketCreateInput struct {
	Title               string
	Description         string
	CategoryID          string
	BuildingID          string
	RoomID              *string
	Priority            domain.TicketPriority
	Status              domain.TicketStatus
	EstimatedCompletion *time.Time
	ReporterID          string
}

// TicketUpdateInput is a full replacement field set. ReporterID is not
// written to the ticket (the reporter is immutable); it names the actor
// recorded on the history entry when the status changes, and callers must
// supply it correctly.
type TicketUpdateInput struct {
	Title               string
	Description         string
	CategoryID          string
	Priority            domain.TicketPriority
	Status              domain.TicketStatus
	BuildingID          string
	RoomID              *string
	EstimatedCompletion *time.Time
	ResolutionNotes     string
	ReporterID          string
}

// MonthlyCount is one bucket of the trailing monthly aggregation.
type MonthlyCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TicketStatistics is the dashboard summary.
type TicketStatistics struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	OnHold     int64 `json:"on_hold"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Overdue    int64 `json:"overdue"`
}

const (
	reasonCreated = "Ticket created"
	reasonUpdated = "Status updated"
)

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tx:          deps.Tx,
		tickets:     deps.TicketRepo,
		history:     deps.HistoryRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		categories:  deps.CategoryRepo,
		buildings:   deps.BuildingRepo,
		rooms:       deps.RoomRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		clock:       clock,
	}
}

// CreateTicket validates the input, applies category-default priority and
// the OPEN default status, and persists the ticket together with its initial
// history entry (old status nil) in one transaction.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description, input.CategoryID, input.BuildingID); err != nil {
		return nil, err
	}
	if input.ReporterID == "" {
		return nil, apperrors.NewValidationError("reporter is required", nil)
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if input.Status != "" && !domain.ValidStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}

	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBuilding(ctx, input.BuildingID); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, input.RoomID, input.BuildingID); err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, input.ReporterID, "reporter"); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:               strings.TrimSpace(input.Title),
		Description:         strings.TrimSpace(input.Description),
		CategoryID:          input.CategoryID,
		Priority:            input.Priority,
		Status:              input.Status,
		ReporterID:          input.ReporterID,
		BuildingID:          input.BuildingID,
		RoomID:              input.RoomID,
		EstimatedCompletion: input.EstimatedCompletion,
	}
	if ticket.Priority == "" {
		ticket.Priority = category.DefaultPriority
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Create(ctx, tx, ticket); err != nil {
			return err
		}
		return s.history.Create(ctx, tx, &domain.TicketStatusHistory{
			TicketID:     ticket.ID,
			OldStatus:    nil,
			NewStatus:    ticket.Status,
			ChangedByID:  ticket.ReporterID,
			ChangeReason: reasonCreated,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("title", ticket.Title))
	s.cache.InvalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  ticket.ReporterID,
		Payload: events.TicketCreatedPayload{
			BuildingID: ticket.BuildingID,
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// UpdateTicket replaces the mutable fields of an existing ticket. A history
// entry is written only when the update moved the status; the actor recorded
// on it is the reporter id supplied on the payload.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description, input.CategoryID, input.BuildingID); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if !domain.ValidStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}

	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.resolveBuilding(ctx, input.BuildingID); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, input.RoomID, input.BuildingID); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.CategoryID = input.CategoryID
	ticket.Priority = input.Priority
	ticket.Status = input.Status
	ticket.BuildingID = input.BuildingID
	ticket.RoomID = input.RoomID
	ticket.EstimatedCompletion = input.EstimatedCompletion
	ticket.ResolutionNotes = input.ResolutionNotes

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Update(ctx, tx, ticket); err != nil {
			return err
		}
		if oldStatus == ticket.Status {
			return nil
		}
		old := oldStatus
		return s.history.Create(ctx, tx, &domain.TicketStatusHistory{
			TicketID:     ticket.ID,
			OldStatus:    &old,
			NewStatus:    ticket.Status,
			ChangedByID:  input.ReporterID,
			ChangeReason: reasonUpdated,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.invalidate(ctx, ticket.ID)
	if oldStatus != ticket.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  input.ReporterID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Reason:    reasonUpdated,
			},
		})
	}
	return ticket, nil
}

// UpdateTicketStatus is the canonical transition entry point. Any status is
// reachable from any other, including CLOSED back to OPEN; no adjacency
// graph is enforced. The first transition to RESOLVED stamps the actual
// completion time; later RESOLVED transitions never move it. Exactly one
// history entry is appended per call, even when old equals new.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, id string, newStatus domain.TicketStatus, actorID, reason string) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, actorID, "actor"); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusResolved && ticket.ActualCompletion == nil {
		now := s.clock()
		ticket.ActualCompletion = &now
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Update(ctx, tx, ticket); err != nil {
			return err
		}
		old := oldStatus
		return s.history.Create(ctx, tx, &domain.TicketStatusHistory{
			TicketID:     ticket.ID,
			OldStatus:    &old,
			NewStatus:    newStatus,
			ChangedByID:  actorID,
			ChangeReason: reason,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("ticket status updated",
		zap.String("ticket_id", ticket.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)))
	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Reason:    reason,
		},
	})
	return ticket, nil
}

// AssignTicket sets the assignee and logs a history entry with old status
// equal to new status. Whether the assignee actually holds the TECHNICIAN
// role is the caller's concern; routes gate on role before reaching here.
func (s *TicketService) AssignTicket(ctx context.Context, id, assigneeID, actorID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.resolveUser(ctx, assigneeID, "assignee")
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, actorID, "actor"); err != nil {
		return nil, err
	}

	ticket.AssigneeID = &assignee.ID
	reason := fmt.Sprintf("Ticket assigned to %s", assignee.FullName)

	if err := s.persistWithUnchangedStatus(ctx, ticket, actorID, reason); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload:  events.TicketAssignedPayload{AssigneeID: ticket.AssigneeID},
	})
	return ticket, nil
}

// UnassignTicket clears the assignee and logs a history entry with old
// status equal to new status.
func (s *TicketService) UnassignTicket(ctx context.Context, id, actorID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, actorID, "actor"); err != nil {
		return nil, err
	}

	reason := "Ticket unassigned"
	if ticket.AssigneeID != nil {
		if previous, err := s.users.GetByID(ctx, *ticket.AssigneeID); err == nil {
			reason = fmt.Sprintf("Ticket unassigned from %s", previous.FullName)
		}
	}
	ticket.AssigneeID = nil

	if err := s.persistWithUnchangedStatus(ctx, ticket, actorID, reason); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload:  events.TicketAssignedPayload{AssigneeID: nil},
	})
	return ticket, nil
}

// DeleteTicket removes a ticket and everything it owns: comments,
// attachments and the full status history.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if _, err := s.loadTicket(ctx, id); err != nil {
		return err
	}
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		return s.tickets.Delete(ctx, tx, id)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.invalidate(ctx, id)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

// GetTicket returns a single ticket, read through the cache.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if cached := s.cache.GetTicket(ctx, id); cached != nil {
		return cached, nil
	}
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetTicket(ctx, ticket)
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	return tickets, apperrors.MapError(err)
}

// SearchTickets matches the term against title and description.
func (s *TicketService) SearchTickets(ctx context.Context, term string, limit, offset int) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{SearchTerm: &term, Limit: limit, Offset: offset}
	return s.ListTickets(ctx, filter)
}

// ListHistory returns the audit trail for a ticket, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketStatusHistory, error) {
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	return entries, apperrors.MapError(err)
}

// AddComment appends a discussion entry to a ticket.
func (s *TicketService) AddComment(ctx context.Context, ticketID, authorID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, authorID, "author"); err != nil {
		return nil, err
	}

	comment := &domain.Comment{TicketID: ticketID, AuthorID: authorID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticketID,
		ActorID:  authorID,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			AuthorID:    authorID,
			TextPreview: stringPreview(text, 120),
		},
	})
	return comment, nil
}

// ListComments returns a ticket's comments, oldest first.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	return comments, apperrors.MapError(err)
}

// AddAttachment records file metadata against a ticket.
func (s *TicketService) AddAttachment(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error) {
	if attachment.FileName == "" || attachment.StorageKey == "" {
		return nil, apperrors.NewValidationError("file_name and storage_key are required", nil)
	}
	if _, err := s.loadTicket(ctx, attachment.TicketID); err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, attachment.UploaderID, "uploader"); err != nil {
		return nil, err
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListAttachments returns attachment metadata for a ticket.
func (s *TicketService) ListAttachments(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	return attachments, apperrors.MapError(err)
}

// FindOverdueTickets evaluates the overdue predicate against the current
// wall clock on every call: OPEN or IN_PROGRESS with an estimated
// completion strictly in the past.
func (s *TicketService) FindOverdueTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListOverdue(ctx, s.clock())
	return tickets, apperrors.MapError(err)
}

// FindOverdueTicketsByAssignee narrows the overdue set to one technician.
func (s *TicketService) FindOverdueTicketsByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListOverdueByAssignee(ctx, assigneeID, s.clock())
	return tickets, apperrors.MapError(err)
}

// FindTicketsDueSoon returns open work due within the next N days.
func (s *TicketService) FindTicketsDueSoon(ctx context.Context, days int) ([]domain.Ticket, error) {
	now := s.clock()
	tickets, err := s.tickets.ListDueSoon(ctx, now, now.AddDate(0, 0, days))
	return tickets, apperrors.MapError(err)
}

// FindUnassignedTickets returns OPEN tickets with no assignee. Tickets in
// any other state without an assignee are deliberately excluded.
func (s *TicketService) FindUnassignedTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListUnassigned(ctx)
	return tickets, apperrors.MapError(err)
}

// FindRecentlyUpdated returns tickets touched within the last week.
func (s *TicketService) FindRecentlyUpdated(ctx context.Context, limit int) ([]domain.Ticket, error) {
	since := s.clock().AddDate(0, 0, -7)
	tickets, err := s.tickets.ListRecentlyUpdated(ctx, since, limit)
	return tickets, apperrors.MapError(err)
}

// Statistics assembles the dashboard summary, cached between mutations.
func (s *TicketService) Statistics(ctx context.Context) (*TicketStatistics, error) {
	var stats TicketStatistics
	if s.cache.GetStats(ctx, "summary", &stats) {
		return &stats, nil
	}

	var err error
	if stats.Total, err = s.tickets.CountAll(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, entry := range []struct {
		status domain.TicketStatus
		target *int64
	}{
		{domain.TicketStatusOpen, &stats.Open},
		{domain.TicketStatusInProgress, &stats.InProgress},
		{domain.TicketStatusOnHold, &stats.OnHold},
		{domain.TicketStatusResolved, &stats.Resolved},
		{domain.TicketStatusClosed, &stats.Closed},
	} {
		if *entry.target, err = s.tickets.CountByStatus(ctx, entry.status); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	overdue, err := s.tickets.ListOverdue(ctx, s.clock())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats.Overdue = int64(len(overdue))

	s.cache.SetStats(ctx, "summary", &stats)
	return &stats, nil
}

// TicketCountByStatus returns label→count over all tickets.
func (s *TicketService) TicketCountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.cachedGroupCount(ctx, "by_status", s.tickets.GroupCountByStatus)
}

// TicketCountByPriority returns label→count over all tickets.
func (s *TicketService) TicketCountByPriority(ctx context.Context) (map[string]int64, error) {
	return s.cachedGroupCount(ctx, "by_priority", s.tickets.GroupCountByPriority)
}

// TicketCountByCategory returns category-name→count over all tickets.
func (s *TicketService) TicketCountByCategory(ctx context.Context) (map[string]int64, error) {
	return s.cachedGroupCount(ctx, "by_category", s.tickets.GroupCountByCategory)
}

// MonthlyTicketCount aggregates creations over the trailing window of the
// given number of calendar months, current month included. Every month is
// pre-seeded with zero, the result is ordered oldest first, and buckets are
// keyed by (year, month) so windows crossing a year boundary stay distinct.
func (s *TicketService) MonthlyTicketCount(ctx context.Context, months int) ([]MonthlyCount, error) {
	if months <= 0 {
		return []MonthlyCount{}, nil
	}
	cacheKey := fmt.Sprintf("monthly_%d", months)
	var cached []MonthlyCount
	if s.cache.GetStats(ctx, cacheKey, &cached) {
		return cached, nil
	}

	now := s.clock()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	buckets, err := s.tickets.GroupCountByMonth(ctx, windowStart)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[fmt.Sprintf("%04d-%02d", b.Year, b.Month)] = b.Count
	}

	result := make([]MonthlyCount, 0, months)
	for i := 0; i < months; i++ {
		month := windowStart.AddDate(0, i, 0)
		key := fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month()))
		result = append(result, MonthlyCount{
			Label: month.Format("Jan 2006"),
			Count: counts[key],
		})
	}

	s.cache.SetStats(ctx, cacheKey, result)
	return result, nil
}

// CountTicketsByReporter returns the reporter's total.
func (s *TicketService) CountTicketsByReporter(ctx context.Context, reporterID string) (int64, error) {
	count, err := s.tickets.CountByReporter(ctx, reporterID)
	return count, apperrors.MapError(err)
}

// CountTicketsByAssignee returns the assignee's total.
func (s *TicketService) CountTicketsByAssignee(ctx context.Context, assigneeID string) (int64, error) {
	count, err := s.tickets.CountByAssignee(ctx, assigneeID)
	return count, apperrors.MapError(err)
}

func (s *TicketService) persistWithUnchangedStatus(ctx context.Context, ticket *domain.Ticket, actorID, reason string) error {
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Update(ctx, tx, ticket); err != nil {
			return err
		}
		status := ticket.Status
		return s.history.Create(ctx, tx, &domain.TicketStatusHistory{
			TicketID:     ticket.ID,
			OldStatus:    &status,
			NewStatus:    status,
			ChangedByID:  actorID,
			ChangeReason: reason,
		})
	})
	return apperrors.MapError(err)
}

func (s *TicketService) cachedGroupCount(ctx context.Context, name string, fetch func(context.Context) (map[string]int64, error)) (map[string]int64, error) {
	var cached map[string]int64
	if s.cache.GetStats(ctx, name, &cached) {
		return cached, nil
	}
	counts, err := fetch(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.SetStats(ctx, name, counts)
	return counts, nil
}

func (s *TicketService) loadTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) resolveCategory(ctx context.Context, id string) (*domain.TicketCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *TicketService) resolveBuilding(ctx context.Context, id string) (*domain.Building, error) {
	building, err := s.buildings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("building", map[string]any{"building_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return building, nil
}

func (s *TicketService) resolveUser(ctx context.Context, id, role string) (*domain.User, error) {
	if id == "" {
		return nil, apperrors.NewValidationError(role+" is required", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(role, map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *TicketService) checkRoom(ctx context.Context, roomID *string, buildingID string) error {
	if roomID == nil {
		return nil
	}
	room, err := s.rooms.GetByID(ctx, *roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("room", map[string]any{"room_id": *roomID})
		}
		return apperrors.MapError(err)
	}
	if room.BuildingID != buildingID {
		return apperrors.NewValidationError("room does not belong to building", map[string]any{
			"room_id":     *roomID,
			"building_id": buildingID,
		})
	}
	return nil
}

func (s *TicketService) invalidate(ctx context.Context, ticketID string) {
	s.cache.InvalidateTicket(ctx, ticketID)
	s.cache.InvalidateStats(ctx)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateTicketFields(title, description, categoryID, buildingID string) error {
	details := map[string]any{}
	if strings.TrimSpace(title) == "" {
		details["title"] = "required"
	} else if len(strings.TrimSpace(title)) > domain.MaxTitleLen {
		details["title"] = fmt.Sprintf("must not exceed %d characters", domain.MaxTitleLen)
	}
	if strings.TrimSpace(description) == "" {
		details["description"] = "required"
	}
	if categoryID == "" {
		details["category_id"] = "required"
	}
	if buildingID == "" {
		details["building_id"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket fields", details)
	}
	return nil
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
