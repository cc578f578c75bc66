package http

import (
	"net/http"
	"strconv"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ActionHandler handles HTTP requests that trigger update and backfill passes.
type ActionHandler struct {
	updaterService service.UpdaterService
	logger         *logger.Logger
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(updaterService service.UpdaterService, logger *logger.Logger) *ActionHandler {
	return &ActionHandler{updaterService: updaterService, logger: logger}
}

// RegisterRoutes registers the action routes to the Echo group.
func (h *ActionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/update", h.TriggerUpdate)
	g.POST("/backfill", h.TriggerBackfill)
}

// TriggerUpdate godoc
// @Summary Run a price update pass now
// @Description Fetch the current quote for every active stock and store the snapshots. Runs synchronously.
// @Tags actions
// @Produce  json
// @Success 200 {object} dto.UpdateActionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /actions/update [post]
func (h *ActionHandler) TriggerUpdate(c echo.Context) error {
	result, err := h.updaterService.RunUpdate(c.Request().Context(), entity.TriggerManual)
	if err != nil {
		h.logger.Error("Manual update failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.UpdateActionResponse{OK: true, Result: result})
}

// TriggerBackfill godoc
// @Summary Run a history backfill pass now
// @Description Fetch daily closes from each stock's purchase date and store them. Runs synchronously.
// @Tags actions
// @Produce  json
// @Param   only_missing  query  bool  false  "Skip timestamps that already have a snapshot (default true)"
// @Success 200 {object} dto.BackfillActionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /actions/backfill [post]
func (h *ActionHandler) TriggerBackfill(c echo.Context) error {
	onlyMissing := true
	if raw := c.QueryParam("only_missing"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid only_missing value"})
		}
		onlyMissing = parsed
	}

	result, err := h.updaterService.RunBackfill(c.Request().Context(), onlyMissing, entity.TriggerManual)
	if err != nil {
		h.logger.Error("Manual backfill failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.BackfillActionResponse{OK: true, Result: result})
}
