// Package middleware provides HTTP middleware for the sentiment service.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityConfig configures CORS and the cookie CSRF check.
type SecurityConfig struct {
	// AllowedOrigins are the browser origins allowed to call the API with
	// credentials. The same list gates state-changing requests.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Security returns middleware that answers CORS for allowed origins and
// rejects state-changing requests whose Origin or Referer is not allowed.
func Security(cfg SecurityConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[normalizeOrigin(origin)] = true
	}

	methods := strings.Join(defaultList(cfg.AllowedMethods, "GET", "POST", "PATCH", "DELETE", "OPTIONS"), ", ")
	headers := strings.Join(defaultList(cfg.AllowedHeaders, "Content-Type", "X-Request-ID"), ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")

		if origin != "" && allowed[normalizeOrigin(origin)] {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			if origin != "" && allowed[normalizeOrigin(origin)] {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", "600")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		// Browsers send cookies on cross-site requests; require proof of origin.
		switch {
		case origin != "":
			if !allowed[normalizeOrigin(origin)] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF validation failed: invalid origin"})
				return
			}
		case c.GetHeader("Referer") != "":
			if !allowed[normalizeOrigin(refererOrigin(c.GetHeader("Referer")))] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF validation failed: invalid referer"})
				return
			}
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF validation failed: missing origin"})
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// refererOrigin reduces a Referer URL to scheme://host[:port].
func refererOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func defaultList(values []string, fallback ...string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
