package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/handlers"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/identity"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/routes"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/database"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/metrics"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/redis"
	"github.com/gin-gonic/gin"
)

const (
	metricsNamespace = "sentiment"
	shutdownTimeout  = 15 * time.Second
)

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := openMigratedDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	// Initialize Redis
	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// Event publisher
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("publishing domain events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer func() { _ = publisher.Close() }()

	// Identity provider and signed login state
	var provider identity.Provider
	var signer service.StateSigner
	if cfg.OIDCEnabled() {
		oidcProvider, err := identity.NewOIDCProvider(ctx, identity.Config{
			Issuer:       cfg.OIDCIssuer,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Scopes:       cfg.OIDCScopes,
		})
		if err != nil {
			return err
		}
		provider = oidcProvider
		if signer, err = service.NewStateSigner(cfg.StateSecret, cfg.LoginStateTTL); err != nil {
			return err
		}
	} else {
		log.Warn("OIDC_ISSUER not set, browser login is disabled")
	}

	m := metrics.New(metricsNamespace)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tickerRepo := repository.NewTickerRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	sessionService := service.NewSessionService(sessionRepo)
	authService := service.NewAuthService(provider, signer, redisClient, userService, sessionService, service.AuthConfig{
		SessionTTL:    cfg.SessionTTL,
		LoginStateTTL: cfg.LoginStateTTL,
	})
	watchlistService := service.NewWatchlistService(userRepo, tickerRepo, watchlistRepo, publisher, m)
	tickerService := service.NewTickerService(tickerRepo)
	articleService := service.NewArticleService(articleRepo, tickerRepo, publisher, m)

	// Initialize handlers
	cookies := handlers.NewCookieHelper(handlers.CookieConfigFrom(cfg))
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cookies, cfg.LoginStateTTL, cfg.FrontendURL),
		Users:     handlers.NewUserHandler(userService),
		Watchlist: handlers.NewWatchlistHandler(watchlistService),
		Tickers:   handlers.NewTickerHandler(tickerService),
		Articles:  handlers.NewArticleHandler(articleService),
		Health: handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"database": sqlDB.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	}

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, h, routes.Deps{
		Config:   cfg,
		Sessions: sessionService,
		Metrics:  m,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting sentiment service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
