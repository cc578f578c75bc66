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

// StockHandler handles HTTP requests for tracked stocks.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStocks)
	g.GET("/:id", h.GetStockDetail)
}

// GetStocks godoc
// @Summary Get all tracked stocks
// @Description Get every tracked stock with its purchase info, latest price and computed return
// @Tags stocks
// @Produce  json
// @Success 200 {array} dto.StockRow
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	stocks, err := h.stockService.GetStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStockDetail godoc
// @Summary Get one stock with its price history
// @Description Get a single stock by ID, including all stored price snapshots in ascending time order
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Stock ID"
// @Success 200 {object} dto.StockDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{id} [get]
func (h *StockHandler) GetStockDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	detail, err := h.stockService.GetStockDetail(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock not found"})
		}
		h.logger.Error("Failed to get stock detail", logger.ErrorField(err), logger.Field("stock_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get stock"})
	}
	return c.JSON(http.StatusOK, detail)
}
