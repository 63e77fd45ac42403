package api

import (
	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/api/handler"
	"github.com/lexhaven/matters-api/internal/core/domain"
)

// Route declares one business endpoint and its gate requirements. The table
// is the single place tenant scoping and role requirements are declared;
// the router turns each row into the matching middleware chain.
type Route struct {
	Method       string
	Path         string
	Handler      echo.HandlerFunc
	TenantScoped bool

	// TenantExempt skips tenant resolution entirely. Reserved for platform
	// admin endpoints that must stay reachable for a super_admin whose token
	// carries no resolvable organization.
	TenantExempt  bool
	RequiredRoles []domain.Role
}

func routeTable(matters *handler.MatterHandler, audits *handler.AuditHandler) []Route {
	legalStaff := []domain.Role{domain.RoleAdmin, domain.RoleAttorney, domain.RoleParalegal, domain.RoleStaff}

	return []Route{
		{Method: "GET", Path: "/matters", Handler: matters.List, TenantScoped: true},
		{Method: "GET", Path: "/matters/:id", Handler: matters.Get, TenantScoped: true},
		{Method: "GET", Path: "/export/matters", Handler: matters.Export, TenantScoped: true, RequiredRoles: legalStaff},
		{Method: "GET", Path: "/tenant", Handler: matters.Tenant, TenantScoped: false},
		{Method: "POST", Path: "/admin/audit/verify", Handler: audits.VerifyChain, TenantExempt: true, RequiredRoles: []domain.Role{domain.RoleSuperAdmin}},
	}
}
