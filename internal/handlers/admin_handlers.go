package handlers

import (
	"net/http"
	"time"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers is the superadmin surface: tenant maturity management and
// the domain approval ledger. Mounted behind RequireSuperadmin; these
// routes never touch tenant-scoped resources directly.
type AdminHandlers struct {
	tenantService   services.TenantService
	maturityService services.MaturityService
	approvalService services.ApprovalService
	auditService    services.AuditService
}

func NewAdminHandlers(tenantService services.TenantService, maturityService services.MaturityService,
	approvalService services.ApprovalService, auditService services.AuditService) *AdminHandlers {
	return &AdminHandlers{
		tenantService:   tenantService,
		maturityService: maturityService,
		approvalService: approvalService,
		auditService:    auditService,
	}
}

type ListQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *AdminHandlers) ListTenants(c echo.Context) error {
	var req ListQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tenants, err := h.tenantService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tenants": tenants})
}

// MaturityInfo is the superadmin view of a tenant's lifecycle state.
type MaturityInfo struct {
	Domain           string               `json:"domain"`
	MaturityState    models.MaturityState `json:"maturity_state"`
	AdminCount       int                  `json:"admin_count"`
	StewardCount     int                  `json:"steward_count"`
	AgeDays          int                  `json:"age_days"`
	AgeDaysThreshold int                  `json:"age_days_threshold"`
	UserThreshold    int                  `json:"user_threshold"`
	AdminThreshold   int                  `json:"admin_threshold"`
	CreatedAt        time.Time            `json:"created_at"`
}

func (h *AdminHandlers) GetMaturity(c echo.Context) error {
	tenant, err := h.tenantService.GetByDomain(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return common.Respond(c, err)
	}

	return c.JSON(http.StatusOK, MaturityInfo{
		Domain:           tenant.Domain,
		MaturityState:    tenant.MaturityState,
		AdminCount:       tenant.AdminCount,
		StewardCount:     tenant.StewardCount,
		AgeDays:          tenant.AgeDays(time.Now()),
		AgeDaysThreshold: tenant.AgeDaysThreshold,
		UserThreshold:    tenant.UserThreshold,
		AdminThreshold:   tenant.AdminThreshold,
		CreatedAt:        tenant.CreatedAt,
	})
}

// ForcePromote promotes a tenant to mature regardless of thresholds.
// Idempotent: promoting a mature tenant returns 200 with no change.
func (h *AdminHandlers) ForcePromote(c echo.Context) error {
	ctx := c.Request().Context()
	tenant, err := h.tenantService.GetByDomain(ctx, c.Param("domain"))
	if err != nil {
		return common.Respond(c, err)
	}

	// Superadmin actions carry no member actor ID in the audit trail.
	promoted, err := h.maturityService.ForcePromote(ctx, tenant.ID, nil)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, promoted)
}

type UpdateThresholdsRequest struct {
	AgeDaysThreshold int `json:"age_days_threshold"`
	UserThreshold    int `json:"user_threshold"`
	AdminThreshold   int `json:"admin_threshold"`
}

func (h *AdminHandlers) UpdateThresholds(c echo.Context) error {
	ctx := c.Request().Context()
	var req UpdateThresholdsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.tenantService.GetByDomain(ctx, c.Param("domain"))
	if err != nil {
		return common.Respond(c, err)
	}

	updated, err := h.maturityService.UpdateThresholds(ctx, tenant.ID,
		req.AgeDaysThreshold, req.UserThreshold, req.AdminThreshold, nil)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

type SetDomainApprovalRequest struct {
	Status models.DomainApprovalStatus `json:"status"`
}

func (h *AdminHandlers) SetDomainApproval(c echo.Context) error {
	ctx := c.Request().Context()
	var req SetDomainApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.approvalService.SetStatus(ctx, c.Param("domain"), req.Status, nil); err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"domain": common.NormalizeDomain(c.Param("domain")),
		"status": string(req.Status),
	})
}

func (h *AdminHandlers) ListDomainApprovals(c echo.Context) error {
	var req ListQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	status := models.DomainApprovalStatus(c.QueryParam("status"))
	if status == "" {
		status = models.DomainPending
	}

	approvals, err := h.approvalService.ListByStatus(c.Request().Context(), status, req.Limit, req.Offset)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"approvals": approvals})
}

func (h *AdminHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()
	var req ListQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tenant, err := h.tenantService.GetByDomain(ctx, c.Param("domain"))
	if err != nil {
		return common.Respond(c, err)
	}

	logs, err := h.auditService.ListByTenant(ctx, tenant.ID, req.Limit, req.Offset)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"audit_logs": logs})
}
