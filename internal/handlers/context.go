package handlers

import (
	"net/http"

	"adrboard/internal/guard"
	"adrboard/internal/middleware"
	"adrboard/internal/models"

	"github.com/labstack/echo/v4"
)

// tenantFromContext reads the tenant the guard middleware resolved for this
// request. Missing means the route was mounted without the guard.
func tenantFromContext(c echo.Context) (*models.Tenant, error) {
	tenant, ok := c.Get(middleware.TenantContextKey).(*models.Tenant)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Tenant not resolved for request")
	}
	return tenant, nil
}

// memberFromContext returns the authenticated member principal. The guard
// admits only members onto tenant routes, so any other kind is a wiring bug.
func memberFromContext(c echo.Context) (guard.Principal, error) {
	p := guard.FromContext(c.Request().Context())
	if !p.IsMember() {
		return guard.Principal{}, echo.NewHTTPError(http.StatusInternalServerError, "Member principal not resolved for request")
	}
	return p, nil
}
