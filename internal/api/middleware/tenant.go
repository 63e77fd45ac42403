package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/api/metrics"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

// ResolveTenant resolves the effective tenant for every authenticated request
// and attaches the TenantContext for the rest of the pipeline. Resolution
// failures are terminal and surface as the uniform denial.
func ResolveTenant(resolver ports.TenantResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			override := c.Request().Header.Get(HeaderOrganizationOverride)

			tc, err := resolver.Resolve(c.Request().Context(), p, override)
			if err != nil {
				metrics.TenantResolutionsTotal.WithLabelValues("denied").Inc()
				return err
			}
			metrics.TenantResolutionsTotal.WithLabelValues("resolved").Inc()

			setTenant(c, tc)
			return next(c)
		}
	}
}
