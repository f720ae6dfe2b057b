package middleware

import (
	"net/http"

	"growshare/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that rejects requests whose JWT role is not
// one of the allowed roles. It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("userRole").(string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing authentication"})
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Insufficient permissions"})
			}
			return next(c)
		}
	}
}

// FarmerRequired allows only farmer accounts.
func FarmerRequired() echo.MiddlewareFunc {
	return RequireRole(models.RoleFarmer)
}

// AdminRequired allows only admin accounts.
func AdminRequired() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
