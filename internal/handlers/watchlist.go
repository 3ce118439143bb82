package handlers

import (
	"net/http"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// WatchlistHandler handles a user's watchlist.
type WatchlistHandler struct {
	watchlist service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler instance.
func NewWatchlistHandler(watchlist service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

// Add puts a ticker on the watchlist, creating the ticker when a type is given.
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req service.AddWatchlistInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.watchlist.Add(c.Request.Context(), userIDParam(c), req)
	if err != nil {
		respondServiceError(c, err, "failed to add to watchlist")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// SetNotification sets the notification flag of one entry, adding it if needed.
func (h *WatchlistHandler) SetNotification(c *gin.Context) {
	var req NotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "enabled must be a boolean")
		return
	}

	item, err := h.watchlist.SetNotification(c.Request.Context(), userIDParam(c), c.Param("symbol"), *req.Enabled, req.Type)
	if err != nil {
		respondServiceError(c, err, "failed to update watchlist notification")
		return
	}

	c.JSON(http.StatusOK, item)
}

// Remove takes a ticker off the watchlist. ?type= disambiguates the symbol.
func (h *WatchlistHandler) Remove(c *gin.Context) {
	if err := h.watchlist.Remove(c.Request.Context(), userIDParam(c), c.Param("symbol"), c.Query("type")); err != nil {
		respondServiceError(c, err, "failed to remove from watchlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List returns the tickers on the watchlist.
func (h *WatchlistHandler) List(c *gin.Context) {
	tickers, err := h.watchlist.List(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err, "failed to load watchlist")
		return
	}
	if tickers == nil {
		tickers = []models.Ticker{}
	}

	c.JSON(http.StatusOK, tickers)
}
