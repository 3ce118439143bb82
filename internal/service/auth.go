package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/identity"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	verifierKeyPrefix = "login_verifier:"
	loginNonceBytes   = 24
)

// LoginStart is what the handler needs to redirect the browser.
type LoginStart struct {
	RedirectURL string
	Nonce       string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	SessionID string
	ExpiresAt time.Time
	User      *models.User
}

// AuthConfig holds the lifetimes used by the login flow.
type AuthConfig struct {
	SessionTTL    time.Duration
	LoginStateTTL time.Duration
}

// AuthService runs the browser login flow against the identity provider.
type AuthService interface {
	BeginLogin(ctx context.Context) (*LoginStart, error)
	// CompleteLogin consumes the login state bound to cookieNonce and opens a
	// session for the authenticated user.
	CompleteLogin(ctx context.Context, code, state, cookieNonce string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	provider identity.Provider
	signer   StateSigner
	redis    *redis.Client
	users    UserService
	sessions SessionService
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new AuthService instance. A nil provider disables
// login while keeping logout available.
func NewAuthService(
	provider identity.Provider,
	signer StateSigner,
	redisClient *redis.Client,
	users UserService,
	sessions SessionService,
	cfg AuthConfig,
) AuthService {
	return &authService{
		provider: provider,
		signer:   signer,
		redis:    redisClient,
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) BeginLogin(ctx context.Context) (*LoginStart, error) {
	if s.provider == nil || s.signer == nil {
		return nil, ErrLoginDisabled
	}

	nonce, err := randomToken(loginNonceBytes)
	if err != nil {
		return nil, err
	}
	state, err := s.signer.Sign(nonce)
	if err != nil {
		return nil, err
	}

	verifier := identity.NewVerifier()
	if err := s.redis.Set(ctx, verifierKeyPrefix+nonce, verifier, s.cfg.LoginStateTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store login verifier: %w", err)
	}

	return &LoginStart{
		RedirectURL: s.provider.AuthCodeURL(state, verifier),
		Nonce:       nonce,
	}, nil
}

func (s *authService) CompleteLogin(ctx context.Context, code, state, cookieNonce string) (*LoginResult, error) {
	if s.provider == nil || s.signer == nil {
		return nil, ErrLoginDisabled
	}
	if code == "" || state == "" {
		return nil, validationError("code and state are required")
	}

	nonce, err := s.signer.Verify(state)
	if err != nil {
		return nil, err
	}
	if cookieNonce == "" || cookieNonce != nonce {
		return nil, fmt.Errorf("%w: state does not match this browser", ErrInvalidState)
	}

	// GETDEL makes each verifier single use.
	verifier, err := s.redis.GetDel(ctx, verifierKeyPrefix+nonce).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrLoginStateMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load login verifier: %w", err)
	}

	claims, err := s.provider.Exchange(ctx, code, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityProvider, err)
	}

	user, err := s.users.EnsureUser(ctx, *claims)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().UTC().Add(s.cfg.SessionTTL)
	sessionID, err := s.sessions.Create(ctx, user.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
