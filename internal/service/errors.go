// Package service implements the business logic of the sentiment service.
package service

import (
	"errors"
	"fmt"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
)

// Error classes. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrPersistence  = errors.New("persistence failure")
	ErrUpstream     = errors.New("upstream failure")
	ErrUnavailable  = errors.New("unavailable")
)

var (
	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrUserExists             = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrEmailTaken             = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrTickerNotFound         = fmt.Errorf("ticker %w", ErrNotFound)
	ErrTickerExists           = fmt.Errorf("%w: ticker already exists", ErrConflict)
	ErrTickerInUse            = fmt.Errorf("%w: ticker is referenced by watchlists or sentiments", ErrConflict)
	ErrInvalidTickerType      = fmt.Errorf("%w: ticker type must be stock or crypto", ErrValidation)
	ErrWatchlistEntryNotFound = fmt.Errorf("watchlist entry %w", ErrNotFound)
	ErrWatchlistEntryExists   = fmt.Errorf("%w: ticker already on watchlist", ErrConflict)
	ErrArticleNotFound        = fmt.Errorf("article %w", ErrNotFound)
	ErrArticleExists          = fmt.Errorf("%w: article already exists", ErrConflict)
	ErrSessionNotFound        = fmt.Errorf("%w: session not found", ErrUnauthorized)
	ErrSessionExpired         = fmt.Errorf("%w: session expired", ErrUnauthorized)
	ErrInvalidState           = fmt.Errorf("%w: invalid login state", ErrUnauthorized)
	ErrLoginStateMissing      = fmt.Errorf("%w: login state missing or already used", ErrValidation)
	ErrIdentityProvider       = fmt.Errorf("%w: identity provider", ErrUpstream)
	ErrLoginDisabled          = fmt.Errorf("%w: login is not configured", ErrUnavailable)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// persistence marks an unexpected store failure, keeping the cause for logs.
func persistence(err error, op string) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// classify maps repository sentinels onto service errors. Anything the
// repository could not classify becomes ErrPersistence.
func classify(err error, op string, notFound, duplicate, foreignKey error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, repository.ErrDuplicate):
		return duplicate
	case foreignKey != nil && errors.Is(err, repository.ErrForeignKey):
		return foreignKey
	default:
		return persistence(err, op)
	}
}
