// Package routes defines HTTP routes for the sentiment service.
package routes

import (
	"log/slog"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/config"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/handlers"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/middleware"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the router serves.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Watchlist *handlers.WatchlistHandler
	Tickers   *handlers.TickerHandler
	Articles  *handlers.ArticleHandler
	Health    *handlers.HealthHandler
}

// Deps are the cross-cutting components routes depend on.
type Deps struct {
	Config   *config.Config
	Sessions middleware.Authenticator
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	// Now is the clock used by the session gate. Defaults to time.Now.
	Now func() time.Time
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, deps Deps) {
	// findArticleId takes a percent-encoded URL as one path segment.
	router.UseRawPath = true

	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.Security(middleware.SecurityConfig{
			AllowedOrigins: deps.Config.AllowedOrigins,
		}),
	)

	requireSession := middleware.RequireSession(deps.Sessions, handlers.SessionCookie, deps.Now)

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.GET("/login", h.Auth.Login)
		auth.GET("/callback", h.Auth.Callback)
		auth.GET("/session", requireSession, h.Auth.Session)
		auth.GET("/logout", h.Auth.Logout)
		auth.POST("/logout", h.Auth.Logout)
	}

	api.POST("/users/register", h.Users.Register)

	user := api.Group("/users/:userId", requireSession, middleware.RequireOwner("userId"))
	{
		user.GET("", h.Users.Get)
		user.PATCH("/notifications", h.Users.SetNotifications)
		user.GET("/watchlist", h.Watchlist.List)
		user.POST("/watchlist", h.Watchlist.Add)
		user.DELETE("/watchlist/:symbol", h.Watchlist.Remove)
		user.PATCH("/watchlist/:symbol/notifications", h.Watchlist.SetNotification)
	}

	tickers := api.Group("/tickers")
	{
		tickers.POST("", h.Tickers.Create)
		tickers.GET("", h.Tickers.ListByType)
		tickers.GET("/byType/", h.Tickers.ListByType)
		tickers.GET("/byType/:type", h.Tickers.ListByType)
		tickers.GET("/:symbol", h.Tickers.Get)
		tickers.DELETE("/:symbol", h.Tickers.Delete)
	}

	articles := api.Group("/articles")
	{
		articles.POST("", h.Articles.Create)
		articles.GET("", h.Articles.List)
		articles.GET("/", h.Articles.List)
		articles.GET("/findArticleId/:url", h.Articles.FindArticleID)
		articles.POST("/:articleId/tickers", h.Articles.UpsertSentiment)
	}

	public := api.Group("/public")
	{
		public.GET("/tickers", h.Tickers.ListByType)
		public.GET("/tickers/:type", h.Tickers.ListByType)
		public.GET("/articles", h.Articles.List)
	}
}
