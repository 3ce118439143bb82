package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	minStateSecretLength = 32
	stateIssuer          = "sentiment-service/login"
)

// StateClaims is the payload of the OAuth state parameter.
type StateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// StateSigner issues and verifies the short-lived signed login state.
type StateSigner interface {
	Sign(nonce string) (string, error)
	// Verify returns the nonce carried by a valid, unexpired token.
	Verify(token string) (string, error)
}

type stateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner creates an HS256 signer. secret must be at least 32 bytes.
func NewStateSigner(secret string, ttl time.Duration) (StateSigner, error) {
	if len(secret) < minStateSecretLength {
		return nil, fmt.Errorf("state secret must be at least %d bytes", minStateSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("state ttl must be positive")
	}
	return &stateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *stateSigner) Sign(nonce string) (string, error) {
	now := s.now()
	claims := StateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign login state: %w", err)
	}
	return signed, nil
}

func (s *stateSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StateClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.Nonce == "" {
		return "", ErrInvalidState
	}
	return claims.Nonce, nil
}
