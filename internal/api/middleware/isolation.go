package middleware

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
	"github.com/lexhaven/matters-api/internal/core/service"
)

// Isolation establishes the per-request data-store isolation key for
// tenant-scoped routes. It re-derives the effective organization from the
// principal itself rather than trusting that tenant resolution ran, validates
// the id shape before it goes anywhere near the session configuration call,
// and never lets the request proceed on an unscoped connection.
//
// Requests without an authenticated principal pass through untouched; routes
// that are not tenant-scoped simply do not mount this middleware.
func Isolation(session ports.TenantSession) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if p == nil {
				return next(c)
			}

			orgID, err := service.EffectiveOrganizationID(p, c.Request().Header.Get(HeaderOrganizationOverride))
			if err != nil {
				return err
			}
			if _, err := uuid.Parse(orgID); err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidTenantIdentifier, orgID)
			}

			ctx, release, err := session.Begin(c.Request().Context(), orgID)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrTenantSessionFailed, err)
			}
			defer release()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
