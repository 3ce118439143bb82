package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/principal"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// MeAlias may stand in for the caller's own user id in a route.
const MeAlias = "me"

// Authenticator decides whether a session credential is valid at now.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string, now time.Time) (*models.Session, error)
}

// RequireSession rejects requests without a valid session cookie and
// attaches the resolved principal to the request context.
func RequireSession(auth Authenticator, cookieName string, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(cookieName)

		session, err := auth.Authenticate(c.Request.Context(), sessionID, now())
		if err != nil {
			message := "unauthorized"
			status := http.StatusUnauthorized
			switch {
			case errors.Is(err, service.ErrSessionExpired):
				message = "session expired"
			case !errors.Is(err, service.ErrUnauthorized):
				slog.ErrorContext(c.Request.Context(), "session lookup failed", "error", err)
				message = "internal server error"
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{
			User:      session.User,
			SessionID: session.ID,
			ExpiresAt: session.ExpiresAt,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireOwner allows the request only when the route parameter names the
// authenticated user, directly or through MeAlias.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		target := c.Param(param)
		if target != MeAlias && target != p.User.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: resource belongs to another user"})
			return
		}
		c.Next()
	}
}
