package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/config"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/observability"
	"github.com/buildingops/maintenance-service/internal/persistence"
	"github.com/buildingops/maintenance-service/internal/service"
)

// RouterDependencies bundles everything the HTTP surface needs.
type RouterDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Postgres       *persistence.Postgres
	Redis          *persistence.Redis
	AuthMiddleware *auth.AuthMiddleware
	Tickets        *service.TicketService
	Catalog        *service.CatalogService
	Auth           *service.AuthService
}

// NewServer builds the Fiber app with all routes registered.
func NewServer(deps RouterDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ErrorHandler: ErrorHandler(deps.Logger, deps.Metrics),
	})

	app.Use(recover.New())
	app.Use(RequestTimeout(deps.Config.App.RequestTimeout()))
	app.Use(observability.RequestLogger(deps.Logger, deps.Metrics))

	health := NewHealthHandler(deps.Postgres, deps.Redis, deps.Config.App.Version)
	tickets := NewTicketHandler(deps.Tickets)
	buildings := NewBuildingHandler(deps.Catalog)
	categories := NewCategoryHandler(deps.Catalog)
	users := NewUserHandler(deps.Auth)
	reports := NewReportHandler(deps.Tickets, deps.Config.Tickets.DueSoonDays)

	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", users.Register)
	authGroup.Post("/login", users.Login)
	authGroup.Get("/me", deps.AuthMiddleware.Handle, users.Me)

	staff := auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician)
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	userGroup := api.Group("/users", deps.AuthMiddleware.Handle)
	userGroup.Get("/technicians", staff, users.ListTechnicians)
	userGroup.Patch("/:id/active", adminOnly, users.SetActive)

	ticketGroup := api.Group("/tickets", deps.AuthMiddleware.Handle)
	ticketGroup.Post("/", tickets.Create)
	ticketGroup.Get("/", tickets.List)
	ticketGroup.Get("/my", tickets.ListMine)
	ticketGroup.Get("/assigned", staff, tickets.ListAssigned)
	ticketGroup.Get("/search", staff, tickets.Search)
	ticketGroup.Get("/overdue", staff, reports.Overdue)
	ticketGroup.Get("/due-soon", staff, reports.DueSoon)
	ticketGroup.Get("/unassigned", staff, reports.Unassigned)
	ticketGroup.Get("/:id", tickets.Get)
	ticketGroup.Put("/:id", staff, tickets.Update)
	ticketGroup.Patch("/:id/status", staff, tickets.UpdateStatus)
	ticketGroup.Post("/:id/assign", staff, tickets.Assign)
	ticketGroup.Post("/:id/unassign", staff, tickets.Unassign)
	ticketGroup.Delete("/:id", adminOnly, tickets.Delete)
	ticketGroup.Get("/:id/history", tickets.History)
	ticketGroup.Post("/:id/comments", tickets.AddComment)
	ticketGroup.Get("/:id/comments", tickets.ListComments)
	ticketGroup.Post("/:id/attachments", tickets.AddAttachment)
	ticketGroup.Get("/:id/attachments", tickets.ListAttachments)

	buildingGroup := api.Group("/buildings", deps.AuthMiddleware.Handle)
	buildingGroup.Get("/", buildings.List)
	buildingGroup.Get("/:id", buildings.Get)
	buildingGroup.Post("/", adminOnly, buildings.Create)
	buildingGroup.Put("/:id", adminOnly, buildings.Update)
	buildingGroup.Delete("/:id", adminOnly, buildings.Delete)
	buildingGroup.Get("/:id/rooms", buildings.ListRooms)
	buildingGroup.Post("/:id/rooms", adminOnly, buildings.CreateRoom)

	roomGroup := api.Group("/rooms", deps.AuthMiddleware.Handle, adminOnly)
	roomGroup.Put("/:id", buildings.UpdateRoom)
	roomGroup.Delete("/:id", buildings.DeleteRoom)

	categoryGroup := api.Group("/categories", deps.AuthMiddleware.Handle)
	categoryGroup.Get("/", categories.List)
	categoryGroup.Get("/:id", categories.Get)
	categoryGroup.Post("/", adminOnly, categories.Create)
	categoryGroup.Put("/:id", adminOnly, categories.Update)
	categoryGroup.Delete("/:id", adminOnly, categories.Delete)

	reportGroup := api.Group("/reports", deps.AuthMiddleware.Handle, staff)
	reportGroup.Get("/overdue", reports.Overdue)
	reportGroup.Get("/due-soon", reports.DueSoon)
	reportGroup.Get("/unassigned", reports.Unassigned)
	reportGroup.Get("/recent", reports.Recent)
	reportGroup.Get("/statistics", reports.Statistics)
	reportGroup.Get("/by-status", reports.CountByStatus)
	reportGroup.Get("/by-priority", reports.CountByPriority)
	reportGroup.Get("/by-category", reports.CountByCategory)
	reportGroup.Get("/monthly", reports.Monthly)

	return app
}
