package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/api/dto"
	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/repository"
	"github.com/buildingops/maintenance-service/internal/service"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// TicketHandler exposes the ticket lifecycle over HTTP.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler constructs the handler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Create handles POST /api/tickets. The reporter is always the caller.
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:               req.Title,
		Description:         req.Description,
		CategoryID:          req.CategoryID,
		BuildingID:          req.BuildingID,
		RoomID:              req.RoomID,
		Priority:            domain.TicketPriority(req.Priority),
		Status:              domain.TicketStatus(req.Status),
		EstimatedCompletion: req.EstimatedCompletion,
		ReporterID:          principal.User.ID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTicket(ticket))
}

// Get handles GET /api/tickets/:id. Tenants may only read their own tickets.
func (h *TicketHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := checkTicketAccess(principal, ticket); err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// List handles GET /api/tickets with query-string filters. Tenants are
// always scoped to their own reports.
func (h *TicketHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter := parseTicketFilter(c)
	if principal.User.Role == domain.RoleTenant {
		id := principal.User.ID
		filter.ReporterID = &id
	}
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// ListMine handles GET /api/tickets/my, the caller's own reports.
func (h *TicketHandler) ListMine(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter := parseTicketFilter(c)
	id := principal.User.ID
	filter.ReporterID = &id
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// ListAssigned handles GET /api/tickets/assigned, the caller's workload.
func (h *TicketHandler) ListAssigned(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter := parseTicketFilter(c)
	id := principal.User.ID
	filter.AssigneeID = &id
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Search handles GET /api/tickets/search?q=term.
func (h *TicketHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return apperrors.NewValidationError("query parameter q is required", nil)
	}
	tickets, err := h.tickets.SearchTickets(c.UserContext(), term, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Update handles PUT /api/tickets/:id, a full replacement.
func (h *TicketHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Title:               req.Title,
		Description:         req.Description,
		CategoryID:          req.CategoryID,
		Priority:            domain.TicketPriority(req.Priority),
		Status:              domain.TicketStatus(req.Status),
		BuildingID:          req.BuildingID,
		RoomID:              req.RoomID,
		EstimatedCompletion: req.EstimatedCompletion,
		ResolutionNotes:     req.ResolutionNotes,
		ReporterID:          principal.User.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// UpdateStatus handles PATCH /api/tickets/:id/status.
func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	ticket, err := h.tickets.UpdateTicketStatus(c.UserContext(), c.Params("id"),
		domain.TicketStatus(req.Status), principal.User.ID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Assign handles POST /api/tickets/:id/assign.
func (h *TicketHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id is required", nil)
	}
	ticket, err := h.tickets.AssignTicket(c.UserContext(), c.Params("id"), req.AssigneeID, principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Unassign handles POST /api/tickets/:id/unassign.
func (h *TicketHandler) Unassign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.UnassignTicket(c.UserContext(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Delete handles DELETE /api/tickets/:id.
func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	if err := h.tickets.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History handles GET /api/tickets/:id/history.
func (h *TicketHandler) History(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := checkTicketAccess(principal, ticket); err != nil {
		return err
	}
	entries, err := h.tickets.ListHistory(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromHistory(entries))
}

// AddComment handles POST /api/tickets/:id/comments.
func (h *TicketHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	comment, err := h.tickets.AddComment(c.UserContext(), c.Params("id"), principal.User.ID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromComment(comment))
}

// ListComments handles GET /api/tickets/:id/comments.
func (h *TicketHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.tickets.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComments(comments))
}

// AddAttachment handles POST /api/tickets/:id/attachments.
func (h *TicketHandler) AddAttachment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	attachment, err := h.tickets.AddAttachment(c.UserContext(), &domain.Attachment{
		TicketID:    c.Params("id"),
		UploaderID:  principal.User.ID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  req.StorageKey,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAttachment(attachment))
}

// ListAttachments handles GET /api/tickets/:id/attachments.
func (h *TicketHandler) ListAttachments(c *fiber.Ctx) error {
	attachments, err := h.tickets.ListAttachments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAttachments(attachments))
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func checkTicketAccess(principal *auth.Principal, ticket *domain.Ticket) error {
	if principal.User.Role != domain.RoleTenant {
		return nil
	}
	if ticket.ReporterID == principal.User.ID {
		return nil
	}
	return apperrors.NewForbidden("tenants may only view their own tickets")
}

func parseTicketFilter(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("reporter_id"); v != "" {
		filter.ReporterID = &v
	}
	if v := c.Query("assignee_id"); v != "" {
		filter.AssigneeID = &v
	}
	if v := c.Query("building_id"); v != "" {
		filter.BuildingID = &v
	}
	if v := c.Query("room_id"); v != "" {
		filter.RoomID = &v
	}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Statuses = []domain.TicketStatus{domain.TicketStatus(v)}
	}
	if v := c.Query("priority"); v != "" {
		filter.Priorities = []domain.TicketPriority{domain.TicketPriority(v)}
	}
	if v := c.Query("q"); v != "" {
		filter.SearchTerm = &v
	}
	return filter
}
