package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// HeaderOrganizationOverride lets super_admin callers act on another tenant.
const HeaderOrganizationOverride = "X-Organization-Override"

const (
	principalKey = "principal"
	tenantKey    = "tenant"
)

// PrincipalFrom returns the authenticated principal attached by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// TenantFrom returns the resolved tenant attached by ResolveTenant, or nil.
func TenantFrom(c echo.Context) *domain.TenantContext {
	t, _ := c.Get(tenantKey).(*domain.TenantContext)
	return t
}

func setPrincipal(c echo.Context, p *domain.Principal) { c.Set(principalKey, p) }
func setTenant(c echo.Context, t *domain.TenantContext) { c.Set(tenantKey, t) }
