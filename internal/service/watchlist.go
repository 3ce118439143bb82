package service

import (
	"context"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
)

// AddWatchlistInput is the payload for adding a ticker to a watchlist.
// NotificationEnabled defaults to true.
type AddWatchlistInput struct {
	Symbol              string `json:"symbol"`
	Type                string `json:"type,omitempty"`
	NotificationEnabled *bool  `json:"notificationEnabled,omitempty"`
}

// WatchlistItem is a watchlist entry together with its ticker.
type WatchlistItem struct {
	models.WatchlistEntry
	Symbol string            `json:"symbol"`
	Type   models.TickerType `json:"type"`
}

// WatchlistService manages per-user watchlists. Every operation checks that
// the user exists before touching tickers or entries.
type WatchlistService interface {
	Add(ctx context.Context, userID string, in AddWatchlistInput) (*WatchlistItem, error)
	// SetNotification inserts the entry if missing, otherwise updates its flag.
	SetNotification(ctx context.Context, userID, symbol string, enabled bool, tickerType string) (*WatchlistItem, error)
	Remove(ctx context.Context, userID, symbol, tickerType string) error
	List(ctx context.Context, userID string) ([]models.Ticker, error)
}

type watchlistService struct {
	users     repository.UserRepository
	tickers   repository.TickerRepository
	watchlist repository.WatchlistRepository
	notify    notifier
}

// NewWatchlistService creates a new WatchlistService instance. publisher and
// recorder may be nil.
func NewWatchlistService(
	users repository.UserRepository,
	tickers repository.TickerRepository,
	watchlist repository.WatchlistRepository,
	publisher events.Publisher,
	recorder Recorder,
) WatchlistService {
	return &watchlistService{
		users:     users,
		tickers:   tickers,
		watchlist: watchlist,
		notify:    newNotifier(publisher, recorder),
	}
}

func (s *watchlistService) Add(ctx context.Context, userID string, in AddWatchlistInput) (*WatchlistItem, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ticker, err := resolveOrCreateTicker(ctx, s.tickers, in.Symbol, in.Type)
	if err != nil {
		return nil, err
	}

	enabled := true
	if in.NotificationEnabled != nil {
		enabled = *in.NotificationEnabled
	}
	entry := &models.WatchlistEntry{
		UserID:              userID,
		TickerID:            ticker.ID,
		NotificationEnabled: enabled,
	}
	if err := s.watchlist.Add(ctx, entry); err != nil {
		return nil, classify(err, "add watchlist entry", nil, ErrWatchlistEntryExists, ErrUserNotFound)
	}

	item := newWatchlistItem(entry, ticker)
	s.changed(ctx, events.WatchlistAdded, "added", userID, item)
	return item, nil
}

func (s *watchlistService) SetNotification(ctx context.Context, userID, symbol string, enabled bool, tickerType string) (*WatchlistItem, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ticker, err := resolveOrCreateTicker(ctx, s.tickers, symbol, tickerType)
	if err != nil {
		return nil, err
	}

	entry, err := s.watchlist.SetNotification(ctx, userID, ticker.ID, enabled)
	if err != nil {
		return nil, classify(err, "set watchlist notification", nil, nil, ErrUserNotFound)
	}

	item := newWatchlistItem(entry, ticker)
	s.changed(ctx, events.WatchlistNotification, "notification", userID, item)
	return item, nil
}

func (s *watchlistService) Remove(ctx context.Context, userID, symbol, tickerType string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}
	tt, err := parseTickerType(tickerType, false)
	if err != nil {
		return err
	}

	ticker, err := s.tickers.FindBySymbol(ctx, symbol, tt)
	if err != nil {
		return classify(err, "find ticker", ErrTickerNotFound, nil, nil)
	}

	removed, err := s.watchlist.Remove(ctx, userID, ticker.ID)
	if err != nil {
		return persistence(err, "remove watchlist entry")
	}
	if !removed {
		return ErrWatchlistEntryNotFound
	}

	s.changed(ctx, events.WatchlistRemoved, "removed", userID, map[string]any{
		"userId":   userID,
		"tickerId": ticker.ID,
		"symbol":   ticker.Symbol,
		"type":     ticker.Type,
	})
	return nil
}

func (s *watchlistService) List(ctx context.Context, userID string) ([]models.Ticker, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	tickers, err := s.watchlist.ListTickers(ctx, userID)
	if err != nil {
		return nil, persistence(err, "list watchlist")
	}
	return tickers, nil
}

func (s *watchlistService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return classify(err, "find user", ErrUserNotFound, nil, nil)
	}
	return nil
}

func (s *watchlistService) changed(ctx context.Context, eventType, action, userID string, data any) {
	s.notify.recorder.WatchlistChange(action)
	s.notify.publish(ctx, eventType, userID, data)
}

func newWatchlistItem(entry *models.WatchlistEntry, ticker *models.Ticker) *WatchlistItem {
	return &WatchlistItem{
		WatchlistEntry: *entry,
		Symbol:         ticker.Symbol,
		Type:           ticker.Type,
	}
}
