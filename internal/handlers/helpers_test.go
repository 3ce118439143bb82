package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/identity"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/principal"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock Implementations
// =============================================================================

type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context) (*service.LoginStart, error)
	completeLoginFunc func(ctx context.Context, code, state, cookieNonce string) (*service.LoginResult, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) BeginLogin(ctx context.Context) (*service.LoginStart, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockAuthService) CompleteLogin(ctx context.Context, code, state, cookieNonce string) (*service.LoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, code, state, cookieNonce)
	}
	return nil, errNotImplemented
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return errNotImplemented
}

type mockUserService struct {
	registerFunc         func(ctx context.Context, in service.RegisterInput) (*models.User, error)
	getUserFunc          func(ctx context.Context, userID string) (*models.User, error)
	setNotificationsFunc func(ctx context.Context, userID string, enabled bool) error
}

func (m *mockUserService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockUserService) SetNotifications(ctx context.Context, userID string, enabled bool) error {
	if m.setNotificationsFunc != nil {
		return m.setNotificationsFunc(ctx, userID, enabled)
	}
	return errNotImplemented
}

func (m *mockUserService) EnsureUser(ctx context.Context, claims identity.Claims) (*models.User, error) {
	return nil, errNotImplemented
}

type mockWatchlistService struct {
	addFunc             func(ctx context.Context, userID string, in service.AddWatchlistInput) (*service.WatchlistItem, error)
	setNotificationFunc func(ctx context.Context, userID, symbol string, enabled bool, tickerType string) (*service.WatchlistItem, error)
	removeFunc          func(ctx context.Context, userID, symbol, tickerType string) error
	listFunc            func(ctx context.Context, userID string) ([]models.Ticker, error)
}

func (m *mockWatchlistService) Add(ctx context.Context, userID string, in service.AddWatchlistInput) (*service.WatchlistItem, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, userID, in)
	}
	return nil, errNotImplemented
}

func (m *mockWatchlistService) SetNotification(ctx context.Context, userID, symbol string, enabled bool, tickerType string) (*service.WatchlistItem, error) {
	if m.setNotificationFunc != nil {
		return m.setNotificationFunc(ctx, userID, symbol, enabled, tickerType)
	}
	return nil, errNotImplemented
}

func (m *mockWatchlistService) Remove(ctx context.Context, userID, symbol, tickerType string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, userID, symbol, tickerType)
	}
	return errNotImplemented
}

func (m *mockWatchlistService) List(ctx context.Context, userID string) ([]models.Ticker, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

type mockTickerService struct {
	createFunc func(ctx context.Context, symbol, tickerType string) (*models.Ticker, error)
	getFunc    func(ctx context.Context, symbol, tickerType string) (*models.Ticker, error)
	listFunc   func(ctx context.Context, tickerType string) ([]models.Ticker, error)
	deleteFunc func(ctx context.Context, symbol, tickerType string) error
}

func (m *mockTickerService) Create(ctx context.Context, symbol, tickerType string) (*models.Ticker, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, symbol, tickerType)
	}
	return nil, errNotImplemented
}

func (m *mockTickerService) Get(ctx context.Context, symbol, tickerType string) (*models.Ticker, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, symbol, tickerType)
	}
	return nil, errNotImplemented
}

func (m *mockTickerService) List(ctx context.Context, tickerType string) ([]models.Ticker, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tickerType)
	}
	return nil, errNotImplemented
}

func (m *mockTickerService) Delete(ctx context.Context, symbol, tickerType string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, symbol, tickerType)
	}
	return errNotImplemented
}

type mockArticleService struct {
	createFunc          func(ctx context.Context, in service.CreateArticleInput) (*models.NewsArticle, error)
	upsertSentimentFunc func(ctx context.Context, articleID string, in service.SentimentInput) (*models.TickerSentiment, error)
	listFunc            func(ctx context.Context, symbol, tickerType string) ([]models.ArticleWithTickers, error)
}

func (m *mockArticleService) Create(ctx context.Context, in service.CreateArticleInput) (*models.NewsArticle, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockArticleService) FindArticleID(rawURL string) (string, error) {
	if rawURL == "" {
		return "", service.ErrValidation
	}
	return models.ArticleID(rawURL), nil
}

func (m *mockArticleService) UpsertSentiment(ctx context.Context, articleID string, in service.SentimentInput) (*models.TickerSentiment, error) {
	if m.upsertSentimentFunc != nil {
		return m.upsertSentimentFunc(ctx, articleID, in)
	}
	return nil, errNotImplemented
}

func (m *mockArticleService) List(ctx context.Context, symbol, tickerType string) ([]models.ArticleWithTickers, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, symbol, tickerType)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Test Helpers
// =============================================================================

func createTestContext(method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBody, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	c.Request = httptest.NewRequest(method, path, reqBody)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// withPrincipal authenticates c as userID.
func withPrincipal(c *gin.Context, userID string) {
	ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{
		User:      models.User{ID: userID, Email: userID + "@example.com", NotificationEnabled: true},
		SessionID: "session-" + userID,
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	c.Request = c.Request.WithContext(ctx)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, w, &body)
	msg, _ := body["error"].(string)
	return msg
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
