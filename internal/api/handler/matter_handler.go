package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/api/middleware"
	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

const defaultPageSize = 50

// MatterHandler exposes the thin tenant-scoped read endpoints. Full matter
// CRUD is owned by another service; these handlers exist to exercise the
// isolation pipeline and to show collaborators how to consume the resolved
// TenantContext and the scoped connection.
type MatterHandler struct {
	matters ports.MatterRepository
}

func NewMatterHandler(matters ports.MatterRepository) *MatterHandler {
	return &MatterHandler{matters: matters}
}

type matterListResponse struct {
	OrganizationID string                `json:"organization_id"`
	Matters        []ports.MatterSummary `json:"matters"`
	Page           int                   `json:"page"`
}

// List returns the tenant's matters. No organization filter appears in the
// query: row visibility comes entirely from the session isolation key.
func (h *MatterHandler) List(c echo.Context) error {
	tc := middleware.TenantFrom(c)
	if tc == nil {
		return domain.ErrMissingTenantContext
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	matters, err := h.matters.List(c.Request().Context(), defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		return err
	}
	if matters == nil {
		matters = []ports.MatterSummary{}
	}

	return c.JSON(http.StatusOK, matterListResponse{
		OrganizationID: tc.OrganizationID,
		Matters:        matters,
		Page:           page,
	})
}

// Get returns a single matter summary by id, again relying on the isolation
// key for cross-tenant invisibility: a foreign id simply finds nothing.
func (h *MatterHandler) Get(c echo.Context) error {
	m, err := h.matters.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Export streams the tenant's matters as a JSON document. The route is
// declared under /export so the audit writer classifies it as DATA_EXPORT.
func (h *MatterHandler) Export(c echo.Context) error {
	tc := middleware.TenantFrom(c)
	if tc == nil {
		return domain.ErrMissingTenantContext
	}

	matters, err := h.matters.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if matters == nil {
		matters = []ports.MatterSummary{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"organization_id": tc.OrganizationID,
		"exported":        len(matters),
		"matters":         matters,
	})
}

type tenantResponse struct {
	OrganizationID   string   `json:"organization_id"`
	OrganizationName string   `json:"organization_name"`
	SubscriptionTier string   `json:"subscription_tier"`
	Features         []string `json:"features"`
}

// Tenant returns the caller's resolved tenant context.
func (h *MatterHandler) Tenant(c echo.Context) error {
	tc := middleware.TenantFrom(c)
	if tc == nil {
		return domain.ErrMissingTenantContext
	}
	features := tc.Features
	if features == nil {
		features = []string{}
	}
	return c.JSON(http.StatusOK, tenantResponse{
		OrganizationID:   tc.OrganizationID,
		OrganizationName: tc.OrganizationName,
		SubscriptionTier: string(tc.Tier),
		Features:         features,
	})
}
