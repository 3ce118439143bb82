package repository

import (
	"context"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"gorm.io/gorm"
)

// TickerRepository defines the interface for ticker data operations.
type TickerRepository interface {
	Create(ctx context.Context, ticker *models.Ticker) error
	// FindBySymbol returns the ticker with symbol, restricted to tickerType
	// when it is non-empty. Ties resolve to the lowest id.
	FindBySymbol(ctx context.Context, symbol string, tickerType models.TickerType) (*models.Ticker, error)
	List(ctx context.Context, tickerType models.TickerType) ([]models.Ticker, error)
	// DeleteBySymbol returns the number of tickers removed.
	DeleteBySymbol(ctx context.Context, symbol string, tickerType models.TickerType) (int64, error)
}

type tickerRepository struct {
	db *gorm.DB
}

// NewTickerRepository creates a new TickerRepository instance.
func NewTickerRepository(db *gorm.DB) TickerRepository {
	return &tickerRepository{db: db}
}

func (r *tickerRepository) Create(ctx context.Context, ticker *models.Ticker) error {
	if err := r.db.WithContext(ctx).Create(ticker).Error; err != nil {
		return translate(err, "failed to create ticker %s (%s)", ticker.Symbol, ticker.Type)
	}
	return nil
}

func (r *tickerRepository) FindBySymbol(ctx context.Context, symbol string, tickerType models.TickerType) (*models.Ticker, error) {
	var ticker models.Ticker
	err := r.bySymbol(ctx, symbol, tickerType).Order("ticker_id").First(&ticker).Error
	if err != nil {
		return nil, translate(err, "failed to find ticker %s", symbol)
	}
	return &ticker, nil
}

func (r *tickerRepository) List(ctx context.Context, tickerType models.TickerType) ([]models.Ticker, error) {
	query := r.db.WithContext(ctx).Order("ticker_id")
	if tickerType != "" {
		query = query.Where("ticker_type = ?", tickerType)
	}

	tickers := []models.Ticker{}
	if err := query.Find(&tickers).Error; err != nil {
		return nil, translate(err, "failed to list tickers")
	}
	return tickers, nil
}

func (r *tickerRepository) DeleteBySymbol(ctx context.Context, symbol string, tickerType models.TickerType) (int64, error) {
	result := r.bySymbol(ctx, symbol, tickerType).Delete(&models.Ticker{})
	if result.Error != nil {
		return 0, translate(result.Error, "failed to delete ticker %s", symbol)
	}
	return result.RowsAffected, nil
}

func (r *tickerRepository) bySymbol(ctx context.Context, symbol string, tickerType models.TickerType) *gorm.DB {
	query := r.db.WithContext(ctx).Where("symbol = ?", symbol)
	if tickerType != "" {
		query = query.Where("ticker_type = ?", tickerType)
	}
	return query
}
