package http

import (
	"net/http"
	"strconv"

	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// SyncRunHandler handles HTTP requests for recorded update and backfill runs.
type SyncRunHandler struct {
	syncRunService service.SyncRunService
	logger         *logger.Logger
}

// NewSyncRunHandler creates a new SyncRunHandler.
func NewSyncRunHandler(syncRunService service.SyncRunService, logger *logger.Logger) *SyncRunHandler {
	return &SyncRunHandler{syncRunService: syncRunService, logger: logger}
}

// RegisterRoutes registers the sync run routes to the Echo group.
func (h *SyncRunHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentRuns)
}

// GetRecentRuns godoc
// @Summary Get recent update and backfill runs
// @Description Get the most recent sync runs, newest first
// @Tags runs
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of runs to return (default 20, max 200)"
// @Success 200 {array} dto.SyncRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [get]
func (h *SyncRunHandler) GetRecentRuns(c echo.Context) error {
	limit := defaultRunLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit value"})
		}
		limit = parsed
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	runs, err := h.syncRunService.GetRecentRuns(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get sync runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get sync runs"})
	}
	return c.JSON(http.StatusOK, runs)
}
