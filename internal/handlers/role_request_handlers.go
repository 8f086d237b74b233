package handlers

import (
	"net/http"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// RoleRequestHandlers exposes the role elevation workflow on the tenant
// surface. Submission is open to plain members; listing and resolution are
// restricted inside the service to admins and stewards.
type RoleRequestHandlers struct {
	roleRequestService services.RoleRequestService
}

func NewRoleRequestHandlers(roleRequestService services.RoleRequestService) *RoleRequestHandlers {
	return &RoleRequestHandlers{roleRequestService: roleRequestService}
}

type SubmitRoleRequestRequest struct {
	RequestedRole models.GlobalRole `json:"requested_role"`
	Reason        string            `json:"reason"`
}

func (h *RoleRequestHandlers) Submit(c echo.Context) error {
	var req SubmitRoleRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	principal, err := memberFromContext(c)
	if err != nil {
		return err
	}

	request, err := h.roleRequestService.Submit(c.Request().Context(),
		principal.UserID, tenant.ID, req.RequestedRole, req.Reason)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

func (h *RoleRequestHandlers) ListPending(c echo.Context) error {
	var req ListQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	principal, err := memberFromContext(c)
	if err != nil {
		return err
	}

	requests, err := h.roleRequestService.ListPending(c.Request().Context(),
		principal.UserID, tenant.ID, req.Limit, req.Offset)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"role_requests": requests})
}

type ResolveRoleRequestRequest struct {
	Outcome models.RoleRequestStatus `json:"outcome"`
}

func (h *RoleRequestHandlers) Resolve(c echo.Context) error {
	var req ResolveRoleRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	requestID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}

	tenant, terr := tenantFromContext(c)
	if terr != nil {
		return terr
	}
	principal, perr := memberFromContext(c)
	if perr != nil {
		return perr
	}

	resolved, err := h.roleRequestService.Resolve(c.Request().Context(),
		principal.UserID, tenant.ID, requestID, req.Outcome)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, resolved)
}
