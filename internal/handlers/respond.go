// Package handlers contains HTTP request handlers for the sentiment service.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/middleware"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/principal"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// RespondError writes a JSON error body and aborts the chain.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// LogAndRespondError logs err with the request context and responds with
// message. The cause is never sent to the client.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	slog.ErrorContext(c.Request.Context(), message,
		"error", err,
		"status", status,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	RespondError(c, status, message)
}

// respondServiceError maps a service error onto its HTTP status. Client
// errors carry the service message; anything else is logged and hidden.
func respondServiceError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUpstream):
		LogAndRespondError(c, http.StatusBadGateway, err, fallback)
		return
	case errors.Is(err, service.ErrUnavailable):
		RespondError(c, http.StatusServiceUnavailable, err.Error())
		return
	default:
		LogAndRespondError(c, status, err, fallback)
		return
	}
	RespondError(c, status, err.Error())
}

// userIDParam resolves the :userId route parameter, expanding "me" to the
// authenticated user. Ownership is enforced by middleware.
func userIDParam(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("userId"))
	if id == middleware.MeAlias {
		if p, ok := principal.FromContext(c.Request.Context()); ok {
			return p.User.ID
		}
	}
	return id
}
