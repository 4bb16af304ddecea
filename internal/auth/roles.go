package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/domain"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles. Role
// gating happens entirely here; the lifecycle engine performs no
// authorization of its own.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, ok := allowedSet[principal.User.Role]; !ok {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
