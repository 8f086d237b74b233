package handlers

import (
	"net/http"

	"adrboard/internal/caching"
	"adrboard/internal/repositories"

	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	db       repositories.Database
	cacheSvc caching.CacheService
}

func NewHealthHandlers(db repositories.Database, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"status": "ok", "database": "ok", "cache": "ok"}
	code := http.StatusOK

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["cache"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
