package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/api/dto"
	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/service"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// UserHandler exposes registration, login and account administration.
type UserHandler struct {
	auth *service.AuthService
}

// NewUserHandler constructs the handler.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// Register handles POST /api/auth/register. Only admins may grant a role
// other than TENANT; unauthenticated registration always yields a tenant.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	role := domain.Role(req.Role)
	if role != "" && role != domain.RoleTenant {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok || principal.User == nil || principal.User.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("only admins may assign roles")
		}
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromUser(user))
}

// Login handles POST /api/auth/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.FromUser(result.User),
	})
}

// Me handles GET /api/auth/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(principal.User))
}

// ListTechnicians handles GET /api/users/technicians.
func (h *UserHandler) ListTechnicians(c *fiber.Ctx) error {
	technicians, err := h.auth.ListTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsers(technicians))
}

// SetActive handles PATCH /api/users/:id/active.
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	var req struct {
		Active bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	user, err := h.auth.SetUserActive(c.UserContext(), c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}
