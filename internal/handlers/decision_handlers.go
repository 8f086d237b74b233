package handlers

import (
	"net/http"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// DecisionHandlers is the tenant-scoped decision record surface. Every route
// sits behind the guard pipeline, so a resolved tenant and member principal
// are always present.
type DecisionHandlers struct {
	decisionService services.DecisionService
}

func NewDecisionHandlers(decisionService services.DecisionService) *DecisionHandlers {
	return &DecisionHandlers{decisionService: decisionService}
}

type DecisionRequest struct {
	Title   string                `json:"title"`
	Context string                `json:"context"`
	Outcome string                `json:"outcome"`
	Status  models.DecisionStatus `json:"status"`
}

func (h *DecisionHandlers) Create(c echo.Context) error {
	var req DecisionRequest
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

	decision, serr := h.decisionService.Create(c.Request().Context(), &models.Decision{
		TenantID: tenant.ID,
		Title:    req.Title,
		Context:  req.Context,
		Outcome:  req.Outcome,
		Status:   req.Status,
		AuthorID: principal.UserID,
	})
	if serr != nil {
		return common.Respond(c, serr)
	}
	return c.JSON(http.StatusCreated, decision)
}

func (h *DecisionHandlers) Get(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}

	decision, err := h.decisionService.GetByID(c.Request().Context(), tenant.ID, id)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, decision)
}

func (h *DecisionHandlers) Update(c echo.Context) error {
	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}
	principal, err := memberFromContext(c)
	if err != nil {
		return err
	}

	decision, serr := h.decisionService.Update(c.Request().Context(), &models.Decision{
		ID:       id,
		TenantID: tenant.ID,
		Title:    req.Title,
		Context:  req.Context,
		Outcome:  req.Outcome,
		Status:   req.Status,
		AuthorID: principal.UserID,
	})
	if serr != nil {
		return common.Respond(c, serr)
	}
	return c.JSON(http.StatusOK, decision)
}

func (h *DecisionHandlers) Delete(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}

	if err := h.decisionService.Delete(c.Request().Context(), tenant.ID, id); err != nil {
		return common.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DecisionHandlers) List(c echo.Context) error {
	var req ListQuery
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	decisions, err := h.decisionService.List(c.Request().Context(), tenant.ID, req.Limit, req.Offset)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"decisions": decisions})
}

// UploadAttachment accepts a multipart file and stores it against the
// decision, replacing any previous attachment key.
func (h *DecisionHandlers) UploadAttachment(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file in request")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to read uploaded file")
	}
	defer src.Close()

	decision, serr := h.decisionService.AttachFile(c.Request().Context(), tenant.ID, id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src, fileHeader.Size)
	if serr != nil {
		return common.Respond(c, serr)
	}
	return c.JSON(http.StatusOK, decision)
}

func (h *DecisionHandlers) AttachmentURL(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.Respond(c, common.Validation("id", err.Error()))
	}

	url, err := h.decisionService.AttachmentURL(c.Request().Context(), tenant.ID, id)
	if err != nil {
		return common.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
