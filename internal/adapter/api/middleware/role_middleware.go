package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"edulearn/internal/domain/repository"
)

type RoleMiddleware struct {
	userRepo repository.UserRepository
}

func NewRoleMiddleware(userRepo repository.UserRepository) *RoleMiddleware {
	return &RoleMiddleware{
		userRepo: userRepo,
	}
}

// Require loads the caller's profile and rejects the request unless their
// role is one of the allowed values. Depends on Authenticate having set
// "uid" on the context.
func (m *RoleMiddleware) Require(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("uid").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := m.userRepo.GetByID(c.Request().Context(), uid)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify role")
			}

			for _, role := range roles {
				if user.Role == role {
					c.Set("role", user.Role)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Requires one of roles: "+strings.Join(roles, ", "))
		}
	}
}
