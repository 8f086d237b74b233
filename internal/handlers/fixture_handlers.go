package handlers

import (
	"net/http"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// FixtureHandlers seeds state for integration test harnesses. These routes
// are mounted only when fixtures are enabled in the config.
type FixtureHandlers struct {
	fixtureService services.FixtureService
}

func NewFixtureHandlers(fixtureService services.FixtureService) *FixtureHandlers {
	return &FixtureHandlers{fixtureService: fixtureService}
}

type SeedUserRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Name     string            `json:"name"`
	Role     models.GlobalRole `json:"role"`
}

func (h *FixtureHandlers) SeedUser(c echo.Context) error {
	var req SeedUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.fixtureService.SeedUser(c.Request().Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

type SetMaturityRequest struct {
	State models.MaturityState `json:"state"`
}

func (h *FixtureHandlers) SetMaturity(c echo.Context) error {
	var req SetMaturityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.fixtureService.SetMaturity(c.Request().Context(), c.Param("domain"), req.State)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}
