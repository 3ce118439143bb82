package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
)

const maxSymbolLength = 32

// TickerService manages the ticker catalogue.
type TickerService interface {
	Create(ctx context.Context, symbol, tickerType string) (*models.Ticker, error)
	// Get resolves symbol, optionally restricted to tickerType.
	Get(ctx context.Context, symbol, tickerType string) (*models.Ticker, error)
	// List accepts stock, crypto, all or empty.
	List(ctx context.Context, tickerType string) ([]models.Ticker, error)
	Delete(ctx context.Context, symbol, tickerType string) error
}

type tickerService struct {
	repo repository.TickerRepository
}

// NewTickerService creates a new TickerService instance.
func NewTickerService(repo repository.TickerRepository) TickerService {
	return &tickerService{repo: repo}
}

func (s *tickerService) Create(ctx context.Context, symbol, tickerType string) (*models.Ticker, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	tt, err := parseTickerType(tickerType, true)
	if err != nil {
		return nil, err
	}

	ticker := &models.Ticker{Symbol: symbol, Type: tt}
	if err := s.repo.Create(ctx, ticker); err != nil {
		return nil, classify(err, "create ticker", nil, ErrTickerExists, nil)
	}
	return ticker, nil
}

func (s *tickerService) Get(ctx context.Context, symbol, tickerType string) (*models.Ticker, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	tt, err := parseTickerType(tickerType, false)
	if err != nil {
		return nil, err
	}

	ticker, err := s.repo.FindBySymbol(ctx, symbol, tt)
	if err != nil {
		return nil, classify(err, "get ticker", ErrTickerNotFound, nil, nil)
	}
	return ticker, nil
}

func (s *tickerService) List(ctx context.Context, tickerType string) ([]models.Ticker, error) {
	if strings.EqualFold(strings.TrimSpace(tickerType), "all") {
		tickerType = ""
	}
	tt, err := parseTickerType(tickerType, false)
	if err != nil {
		return nil, err
	}

	tickers, err := s.repo.List(ctx, tt)
	if err != nil {
		return nil, persistence(err, "list tickers")
	}
	return tickers, nil
}

func (s *tickerService) Delete(ctx context.Context, symbol, tickerType string) error {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}
	tt, err := parseTickerType(tickerType, false)
	if err != nil {
		return err
	}

	n, err := s.repo.DeleteBySymbol(ctx, symbol, tt)
	if err != nil {
		return classify(err, "delete ticker", nil, nil, ErrTickerInUse)
	}
	if n == 0 {
		return ErrTickerNotFound
	}
	return nil
}

// resolveOrCreateTicker finds symbol or, when tickerType is given, creates it.
// A ticker of the requested type wins; otherwise any ticker with the symbol is
// used and tickerType is not checked. A lost creation race resolves to the
// winning row.
func resolveOrCreateTicker(ctx context.Context, repo repository.TickerRepository, symbol, tickerType string) (*models.Ticker, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	tt, typeErr := parseTickerType(tickerType, false)

	lookups := []models.TickerType{""}
	if typeErr == nil && tt != "" {
		lookups = []models.TickerType{tt, ""}
	}
	for _, lookup := range lookups {
		ticker, err := repo.FindBySymbol(ctx, symbol, lookup)
		if err == nil {
			return ticker, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, persistence(err, "find ticker")
		}
	}
	if typeErr != nil {
		return nil, typeErr
	}
	if tt == "" {
		return nil, validationError("unknown ticker %s: type is required to create it", symbol)
	}

	ticker := &models.Ticker{Symbol: symbol, Type: tt}
	err = repo.Create(ctx, ticker)
	if errors.Is(err, repository.ErrDuplicate) {
		existing, findErr := repo.FindBySymbol(ctx, symbol, tt)
		if findErr != nil {
			return nil, persistence(findErr, "find ticker")
		}
		return existing, nil
	}
	if err != nil {
		return nil, persistence(err, "create ticker")
	}
	return ticker, nil
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", validationError("symbol is required")
	}
	if len(symbol) > maxSymbolLength {
		return "", validationError("symbol must be at most %d characters", maxSymbolLength)
	}
	return symbol, nil
}

// parseTickerType returns the empty type for blank input unless required.
func parseTickerType(value string, required bool) (models.TickerType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		if required {
			return "", ErrInvalidTickerType
		}
		return "", nil
	}
	tt := models.TickerType(value)
	if !tt.Valid() {
		return "", ErrInvalidTickerType
	}
	return tt, nil
}
