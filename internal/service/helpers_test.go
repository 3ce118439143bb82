package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/database"
	"gorm.io/gorm"
)

// =============================================================================
// Test Helpers
// =============================================================================

type testRepos struct {
	db        *gorm.DB
	users     repository.UserRepository
	tickers   repository.TickerRepository
	watchlist repository.WatchlistRepository
	articles  repository.ArticleRepository
	sessions  repository.SessionRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "service.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	return testRepos{
		db:        db,
		users:     repository.NewUserRepository(db),
		tickers:   repository.NewTickerRepository(db),
		watchlist: repository.NewWatchlistRepository(db),
		articles:  repository.NewArticleRepository(db),
		sessions:  repository.NewSessionRepository(db),
	}
}

func registerUser(t *testing.T, repos testRepos, id, email string) *models.User {
	t.Helper()
	user, err := NewUserService(repos.users).Register(context.Background(), RegisterInput{UserID: id, Email: email})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return user
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingRecorder struct {
	watchlist  map[string]int
	sentiments int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{watchlist: map[string]int{}}
}

func (r *countingRecorder) WatchlistChange(action string) { r.watchlist[action]++ }

func (r *countingRecorder) SentimentUpsert() { r.sentiments++ }
