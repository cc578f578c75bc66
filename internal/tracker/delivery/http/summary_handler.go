package http

import (
	"net/http"

	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SummaryHandler handles HTTP requests for the portfolio summary.
type SummaryHandler struct {
	summaryService service.SummaryService
	logger         *logger.Logger
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService service.SummaryService, logger *logger.Logger) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, logger: logger}
}

// RegisterRoutes registers the summary routes to the Echo group.
func (h *SummaryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetSummary)
}

// GetSummary godoc
// @Summary Get the portfolio summary
// @Description Get all tracked stocks with purchase and latest prices, returns, and per-industry aggregates
// @Tags summary
// @Produce  json
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	summary, err := h.summaryService.GetSummary(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to build summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build summary"})
	}
	return c.JSON(http.StatusOK, summary)
}
