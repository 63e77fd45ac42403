package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/service"
)

// AuditHandler exposes offline chain verification for audit review tooling.
type AuditHandler struct {
	chain *service.AuditChain
}

func NewAuditHandler(chain *service.AuditChain) *AuditHandler {
	return &AuditHandler{chain: chain}
}

type verifyChainRequest struct {
	Entries []domain.AuditLogEntry `json:"entries" validate:"required,min=1"`
}

type verifyChainResponse struct {
	Valid         bool `json:"valid"`
	FirstBadIndex *int `json:"first_bad_index,omitempty"`
}

// VerifyChain recomputes every entry's keyed hash and the previousHash
// linkage and reports the first index at which the chain breaks.
func (h *AuditHandler) VerifyChain(c echo.Context) error {
	var req verifyChainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idx, ok := h.chain.VerifyChain(req.Entries)
	resp := verifyChainResponse{Valid: ok}
	if !ok {
		resp.FirstBadIndex = &idx
	}
	return c.JSON(http.StatusOK, resp)
}
