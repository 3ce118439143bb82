package handlers

import (
	"net/http"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/principal"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles the browser login flow and session endpoints.
type AuthHandler struct {
	authService   service.AuthService
	cookies       *CookieHelper
	loginStateTTL time.Duration
	frontendURL   string
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, cookies *CookieHelper, loginStateTTL time.Duration, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookies:       cookies,
		loginStateTTL: loginStateTTL,
		frontendURL:   frontendURL,
	}
}

// SessionResponse describes the current session.
type SessionResponse struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Login redirects the browser to the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	start, err := h.authService.BeginLogin(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "failed to start login")
		return
	}

	h.cookies.SetLoginState(c, start.Nonce, h.loginStateTTL)
	c.Redirect(http.StatusFound, start.RedirectURL)
}

// Callback completes the login started by Login and opens a session.
func (h *AuthHandler) Callback(c *gin.Context) {
	// The nonce is single use whatever the outcome.
	nonce := h.cookies.LoginState(c)
	h.cookies.ClearLoginState(c)

	if reason := c.Query("error"); reason != "" {
		RespondError(c, http.StatusUnauthorized, "login was not completed: "+reason)
		return
	}

	result, err := h.authService.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), nonce)
	if err != nil {
		respondServiceError(c, err, "login failed")
		return
	}

	h.cookies.SetSession(c, result.SessionID, result.ExpiresAt)
	c.Redirect(http.StatusFound, h.frontendURL)
}

// Session returns the authenticated user. It runs behind the session gate.
func (h *AuthHandler) Session(c *gin.Context) {
	p, ok := principal.FromContext(c.Request.Context())
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		User:      p.User,
		ExpiresAt: p.ExpiresAt,
	})
}

// Logout revokes the session, if any, and clears its cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.cookies.SessionID(c)); err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "logout failed")
		return
	}

	h.cookies.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
