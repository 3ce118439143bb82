package handlers

import (
	"net/http"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/config"
	"github.com/gin-gonic/gin"
)

const (
	// Cookie names
	SessionCookie    = "session_id"
	LoginStateCookie = "login_state"
)

// CookieConfig holds the attributes shared by every cookie the service sets.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// CookieConfigFrom derives cookie attributes from service configuration.
func CookieConfigFrom(cfg *config.Config) CookieConfig {
	return CookieConfig{
		Domain:   cfg.CookieDomain,
		Path:     "/",
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	}
}

// CookieHelper manages the session and login-state cookies.
type CookieHelper struct {
	config CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(config CookieConfig) *CookieHelper {
	if config.Path == "" {
		config.Path = "/"
	}
	return &CookieHelper{config: config}
}

// SetSession stores the opaque session id until expiresAt.
func (h *CookieHelper) SetSession(c *gin.Context, sessionID string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	h.setCookie(c, SessionCookie, sessionID, maxAge)
}

// ClearSession removes the session cookie.
func (h *CookieHelper) ClearSession(c *gin.Context) {
	h.setCookie(c, SessionCookie, "", -1)
}

// SessionID retrieves the session id from the cookie.
func (h *CookieHelper) SessionID(c *gin.Context) string {
	value, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return value
}

// SetLoginState stores the login nonce for the duration of the redirect.
func (h *CookieHelper) SetLoginState(c *gin.Context, nonce string, ttl time.Duration) {
	h.setCookie(c, LoginStateCookie, nonce, int(ttl.Seconds()))
}

// ClearLoginState removes the login-state cookie.
func (h *CookieHelper) ClearLoginState(c *gin.Context) {
	h.setCookie(c, LoginStateCookie, "", -1)
}

// LoginState retrieves the login nonce from the cookie.
func (h *CookieHelper) LoginState(c *gin.Context) string {
	value, err := c.Cookie(LoginStateCookie)
	if err != nil {
		return ""
	}
	return value
}

func (h *CookieHelper) setCookie(c *gin.Context, name, value string, maxAge int) {
	sameSite := h.config.SameSite
	// The callback arrives as a cross-site top-level navigation from the
	// identity provider; a strict cookie would not be sent with it.
	if name == LoginStateCookie && sameSite == http.SameSiteStrictMode {
		sameSite = http.SameSiteLaxMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(
		name,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly
	)
}
