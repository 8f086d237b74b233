package handlers

import (
	"net/http"

	"adrboard/internal/common"
	"adrboard/internal/guard"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// SettingsHandlers is the tenant settings surface, mounted behind the
// admin-gated guard. Restricted fields stay locked for a provisional admin
// until the tenant matures.
type SettingsHandlers struct {
	settingsService services.SettingsService
}

func NewSettingsHandlers(settingsService services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsService: settingsService}
}

// SettingsView pairs the stored settings with lock flags so the client can
// render restricted fields read-only.
type SettingsView struct {
	Settings *models.TenantSettings `json:"settings"`
	Locked   SettingsLocks          `json:"locked"`
}

type SettingsLocks struct {
	AuthMethod       bool `json:"auth_method"`
	SelfRegistration bool `json:"self_registration"`
}

func (h *SettingsHandlers) Get(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	principal, err := memberFromContext(c)
	if err != nil {
		return err
	}

	settings, serr := h.settingsService.Get(c.Request().Context(), tenant.ID)
	if serr != nil {
		return common.Respond(c, serr)
	}

	locked := guard.SettingsLocked(tenant, principal)
	return c.JSON(http.StatusOK, SettingsView{
		Settings: settings,
		Locked: SettingsLocks{
			AuthMethod:       locked,
			SelfRegistration: locked,
		},
	})
}

type UpdateSettingsRequest struct {
	DisplayName      string            `json:"display_name"`
	AuthMethod       models.AuthMethod `json:"auth_method"`
	SelfRegistration bool              `json:"self_registration"`
}

func (h *SettingsHandlers) Update(c echo.Context) error {
	var req UpdateSettingsRequest
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

	updated, serr := h.settingsService.Update(c.Request().Context(), tenant.ID,
		guard.SettingsLocked(tenant, principal), &models.TenantSettings{
			DisplayName:      req.DisplayName,
			AuthMethod:       req.AuthMethod,
			SelfRegistration: req.SelfRegistration,
		})
	if serr != nil {
		return common.Respond(c, serr)
	}
	return c.JSON(http.StatusOK, updated)
}
