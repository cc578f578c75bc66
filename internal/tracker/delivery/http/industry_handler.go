package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// IndustryHandler handles HTTP requests for industries.
type IndustryHandler struct {
	industryService service.IndustryService
	logger          *logger.Logger
}

// NewIndustryHandler creates a new IndustryHandler.
func NewIndustryHandler(industryService service.IndustryService, logger *logger.Logger) *IndustryHandler {
	return &IndustryHandler{industryService: industryService, logger: logger}
}

// RegisterRoutes registers the industry routes to the Echo group.
func (h *IndustryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetIndustries)
	g.GET("/:id", h.GetIndustryDetail)
}

// GetIndustries godoc
// @Summary Get all industries
// @Description Get every industry with its stock counts and average return
// @Tags industries
// @Produce  json
// @Success 200 {array} dto.IndustryRow
// @Failure 500 {object} dto.ErrorResponse
// @Router /industries [get]
func (h *IndustryHandler) GetIndustries(c echo.Context) error {
	industries, err := h.industryService.GetIndustries(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get industries", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get industries"})
	}
	return c.JSON(http.StatusOK, industries)
}

// GetIndustryDetail godoc
// @Summary Get one industry with its member stocks
// @Description Get a single industry by ID, including aggregates and its member stock rows
// @Tags industries
// @Produce  json
// @Param   id  path    int true    "Industry ID"
// @Success 200 {object} dto.IndustryDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /industries/{id} [get]
func (h *IndustryHandler) GetIndustryDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid industry ID"})
	}

	detail, err := h.industryService.GetIndustryDetail(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Industry not found"})
		}
		h.logger.Error("Failed to get industry detail", logger.ErrorField(err), logger.Field("industry_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get industry"})
	}
	return c.JSON(http.StatusOK, detail)
}
