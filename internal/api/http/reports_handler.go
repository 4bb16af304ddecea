package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/api/dto"
	"github.com/buildingops/maintenance-service/internal/service"
)

// ReportHandler exposes the derived views: overdue, due soon, unassigned,
// and the aggregation endpoints backing dashboards.
type ReportHandler struct {
	tickets     *service.TicketService
	dueSoonDays int
}

// NewReportHandler constructs the handler.
func NewReportHandler(tickets *service.TicketService, dueSoonDays int) *ReportHandler {
	if dueSoonDays <= 0 {
		dueSoonDays = 3
	}
	return &ReportHandler{tickets: tickets, dueSoonDays: dueSoonDays}
}

// Overdue handles GET /api/reports/overdue. An assignee_id query narrows the
// set to one technician.
func (h *ReportHandler) Overdue(c *fiber.Ctx) error {
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		tickets, err := h.tickets.FindOverdueTicketsByAssignee(c.UserContext(), assigneeID)
		if err != nil {
			return err
		}
		return c.JSON(dto.FromTickets(tickets))
	}
	tickets, err := h.tickets.FindOverdueTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// DueSoon handles GET /api/reports/due-soon?days=N.
func (h *ReportHandler) DueSoon(c *fiber.Ctx) error {
	tickets, err := h.tickets.FindTicketsDueSoon(c.UserContext(), c.QueryInt("days", h.dueSoonDays))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Unassigned handles GET /api/reports/unassigned.
func (h *ReportHandler) Unassigned(c *fiber.Ctx) error {
	tickets, err := h.tickets.FindUnassignedTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Recent handles GET /api/reports/recent?limit=N.
func (h *ReportHandler) Recent(c *fiber.Ctx) error {
	tickets, err := h.tickets.FindRecentlyUpdated(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Statistics handles GET /api/reports/statistics.
func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.tickets.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// CountByStatus handles GET /api/reports/by-status.
func (h *ReportHandler) CountByStatus(c *fiber.Ctx) error {
	counts, err := h.tickets.TicketCountByStatus(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// CountByPriority handles GET /api/reports/by-priority.
func (h *ReportHandler) CountByPriority(c *fiber.Ctx) error {
	counts, err := h.tickets.TicketCountByPriority(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// CountByCategory handles GET /api/reports/by-category.
func (h *ReportHandler) CountByCategory(c *fiber.Ctx) error {
	counts, err := h.tickets.TicketCountByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// Monthly handles GET /api/reports/monthly?months=N.
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	counts, err := h.tickets.MonthlyTicketCount(c.UserContext(), c.QueryInt("months", 6))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromMonthlyCounts(counts))
}
