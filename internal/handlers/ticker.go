package handlers

import (
	"net/http"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

type TickerHandler struct {
	tickers service.TickerService
}

func NewTickerHandler(tickers service.TickerService) *TickerHandler {
	return &TickerHandler{tickers: tickers}
}

// CreateTickerRequest is the body of POST /api/tickers.
type CreateTickerRequest struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
}

func (h *TickerHandler) Create(c *gin.Context) {
	var req CreateTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ticker, err := h.tickers.Create(c.Request.Context(), req.Symbol, req.Type)
	if err != nil {
		respondServiceError(c, err, "failed to create ticker")
		return
	}

	c.JSON(http.StatusCreated, ticker)
}

// ListByType serves /byType/:type and ?type=; a missing type lists everything.
func (h *TickerHandler) ListByType(c *gin.Context) {
	tickerType := c.Param("type")
	if tickerType == "" {
		tickerType = c.Query("type")
	}

	tickers, err := h.tickers.List(c.Request.Context(), tickerType)
	if err != nil {
		respondServiceError(c, err, "failed to list tickers")
		return
	}
	if tickers == nil {
		tickers = []models.Ticker{}
	}

	c.JSON(http.StatusOK, tickers)
}

func (h *TickerHandler) Get(c *gin.Context) {
	ticker, err := h.tickers.Get(c.Request.Context(), c.Param("symbol"), c.Query("type"))
	if err != nil {
		respondServiceError(c, err, "failed to load ticker")
		return
	}

	c.JSON(http.StatusOK, ticker)
}

func (h *TickerHandler) Delete(c *gin.Context) {
	symbol := c.Param("symbol")
	if err := h.tickers.Delete(c.Request.Context(), symbol, c.Query("type")); err != nil {
		respondServiceError(c, err, "failed to delete ticker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ticker " + symbol + " deleted"})
}
