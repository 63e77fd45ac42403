package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/api/metrics"
	"github.com/lexhaven/matters-api/internal/core/domain"
)

// RequireRoles enforces role-based access for a route. Declaring no roles
// allows everyone; super_admin bypasses any declared requirement. Denials go
// through the central error handler so every denial renders identically.
func RequireRoles(required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(required) == 0 {
				return next(c)
			}

			p := PrincipalFrom(c)
			if p == nil || len(p.Roles) == 0 {
				metrics.AccessDeniedTotal.WithLabelValues("no_roles").Inc()
				return domain.ErrAccessDenied
			}
			if !domain.RolesAllow(required, p.Roles) {
				metrics.AccessDeniedTotal.WithLabelValues("role_mismatch").Inc()
				return domain.ErrAccessDenied
			}

			return next(c)
		}
	}
}
