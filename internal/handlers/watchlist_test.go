package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
)

func watchlistItem(userID, symbol string, enabled bool) *service.WatchlistItem {
	return &service.WatchlistItem{
		WatchlistEntry: models.WatchlistEntry{ID: 1, UserID: userID, TickerID: 7, NotificationEnabled: enabled},
		Symbol:         symbol,
		Type:           models.TickerTypeStock,
	}
}

func TestWatchlistAdd(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
	}{
		{"created", map[string]any{"symbol": "AAPL", "type": "stock"}, nil, http.StatusCreated},
		{"duplicate", map[string]any{"symbol": "AAPL"}, service.ErrWatchlistEntryExists, http.StatusConflict},
		{"unknown user", map[string]any{"symbol": "AAPL"}, service.ErrUserNotFound, http.StatusNotFound},
		{"bad type", map[string]any{"symbol": "AAPL", "type": "bond"}, service.ErrInvalidTickerType, http.StatusBadRequest},
		{"malformed json", "[", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			var gotInput service.AddWatchlistInput
			handler := NewWatchlistHandler(&mockWatchlistService{
				addFunc: func(ctx context.Context, userID string, in service.AddWatchlistInput) (*service.WatchlistItem, error) {
					gotUser, gotInput = userID, in
					if tt.err != nil {
						return nil, tt.err
					}
					return watchlistItem(userID, in.Symbol, true), nil
				},
			})

			w, c := createTestContext(http.MethodPost, "/api/users/me/watchlist", tt.body)
			withPrincipal(c, "u1")
			c.AddParam("userId", "me")
			handler.Add(c)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			if gotUser != "u1" || gotInput.Symbol != "AAPL" || gotInput.Type != "stock" {
				t.Errorf("Add(%q, %+v)", gotUser, gotInput)
			}
			var body map[string]any
			decodeBody(t, w, &body)
			if body["symbol"] != "AAPL" || body["notificationEnabled"] != true || body["watchlistId"] == nil {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestWatchlistSetNotification(t *testing.T) {
	var gotSymbol, gotType string
	var gotEnabled bool
	handler := NewWatchlistHandler(&mockWatchlistService{
		setNotificationFunc: func(ctx context.Context, userID, symbol string, enabled bool, tickerType string) (*service.WatchlistItem, error) {
			gotSymbol, gotType, gotEnabled = symbol, tickerType, enabled
			return watchlistItem(userID, symbol, enabled), nil
		},
	})

	w, c := createTestContext(http.MethodPatch, "/api/users/u1/watchlist/BTC/notifications", map[string]any{"enabled": false, "type": "crypto"})
	c.AddParam("userId", "u1")
	c.AddParam("symbol", "BTC")
	handler.SetNotification(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if gotSymbol != "BTC" || gotType != "crypto" || gotEnabled {
		t.Errorf("SetNotification(symbol=%q, enabled=%v, type=%q)", gotSymbol, gotEnabled, gotType)
	}

	w, c = createTestContext(http.MethodPatch, "/api/users/u1/watchlist/BTC/notifications", map[string]any{})
	c.AddParam("userId", "u1")
	c.AddParam("symbol", "BTC")
	handler.SetNotification(c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing enabled: status = %d, want 400", w.Code)
	}
}

func TestWatchlistRemove(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"removed", nil, http.StatusOK},
		{"not on watchlist", service.ErrWatchlistEntryNotFound, http.StatusNotFound},
		{"unknown ticker", service.ErrTickerNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotType string
			handler := NewWatchlistHandler(&mockWatchlistService{
				removeFunc: func(ctx context.Context, userID, symbol, tickerType string) error {
					gotType = tickerType
					return tt.err
				},
			})

			w, c := createTestContext(http.MethodDelete, "/api/users/u1/watchlist/AAPL?type=stock", nil)
			c.AddParam("userId", "u1")
			c.AddParam("symbol", "AAPL")
			handler.Remove(c)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotType != "stock" {
				t.Errorf("type = %q, want stock", gotType)
			}
		})
	}
}

func TestWatchlistList_EmptyIsArray(t *testing.T) {
	handler := NewWatchlistHandler(&mockWatchlistService{
		listFunc: func(ctx context.Context, userID string) ([]models.Ticker, error) {
			return nil, nil
		},
	})

	w, c := createTestContext(http.MethodGet, "/api/users/u1/watchlist", nil)
	c.AddParam("userId", "u1")
	handler.List(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}
