package repository

import (
	"context"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Articles without a publish time sort after all dated ones.
const articleOrder = "news_articles.published_at IS NULL, news_articles.published_at DESC, news_articles.article_id"

// SentimentUpsert carries the fields to write for one (article, ticker) pair.
// Unset fields are left untouched on update and stored as NULL on insert.
type SentimentUpsert struct {
	ArticleID string
	TickerID  uint
	Score     models.Field[decimal.Decimal]
	Label     models.Field[string]
	Relevance models.Field[decimal.Decimal]
}

// ArticleRepository defines the interface for article and sentiment data operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.NewsArticle) error
	FindByID(ctx context.Context, id string) (*models.NewsArticle, error)
	List(ctx context.Context) ([]models.NewsArticle, error)
	ListByTicker(ctx context.Context, tickerID uint) ([]models.NewsArticle, error)
	// UpsertSentiment writes the row atomically and returns it as stored.
	UpsertSentiment(ctx context.Context, in SentimentUpsert) (*models.ArticleTickerSentiment, error)
	// SentimentsFor returns every sentiment row of the given articles,
	// joined with the ticker symbol, ordered by symbol within each article.
	SentimentsFor(ctx context.Context, articleIDs []string) ([]models.TickerSentiment, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository instance.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.NewsArticle) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return translate(err, "failed to create article %s", article.ID)
	}
	return nil
}

func (r *articleRepository) FindByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := r.db.WithContext(ctx).Where("article_id = ?", id).First(&article).Error; err != nil {
		return nil, translate(err, "failed to find article %s", id)
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]models.NewsArticle, error) {
	articles := []models.NewsArticle{}
	if err := r.db.WithContext(ctx).Order(articleOrder).Find(&articles).Error; err != nil {
		return nil, translate(err, "failed to list articles")
	}
	return articles, nil
}

func (r *articleRepository) ListByTicker(ctx context.Context, tickerID uint) ([]models.NewsArticle, error) {
	articles := []models.NewsArticle{}
	err := r.db.WithContext(ctx).
		Model(&models.NewsArticle{}).
		Joins("JOIN news_article_tickers ON news_article_tickers.article_id = news_articles.article_id").
		Where("news_article_tickers.ticker_id = ?", tickerID).
		Order(articleOrder).
		Find(&articles).Error
	if err != nil {
		return nil, translate(err, "failed to list articles for ticker %d", tickerID)
	}
	return articles, nil
}

func (r *articleRepository) UpsertSentiment(ctx context.Context, in SentimentUpsert) (*models.ArticleTickerSentiment, error) {
	row := models.ArticleTickerSentiment{
		ArticleID: in.ArticleID,
		TickerID:  in.TickerID,
	}
	var columns []string
	if in.Score.Set {
		row.TickerSentimentScore = nullDecimal(in.Score)
		columns = append(columns, "ticker_sentiment_score")
	}
	if in.Label.Set {
		if in.Label.Present() {
			label := in.Label.Value
			row.TickerSentimentLabel = &label
		}
		columns = append(columns, "ticker_sentiment_label")
	}
	if in.Relevance.Set {
		row.RelevanceScore = nullDecimal(in.Relevance)
		columns = append(columns, "relevance_score")
	}

	conflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}, {Name: "ticker_id"}},
	}
	if len(columns) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(columns)
	}

	var stored models.ArticleTickerSentiment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(conflict).Create(&row).Error; err != nil {
			return err
		}
		// Read back so the caller sees what is durable, not the input echo.
		return tx.Where("article_id = ? AND ticker_id = ?", in.ArticleID, in.TickerID).First(&stored).Error
	})
	if err != nil {
		return nil, translate(err, "failed to upsert sentiment for article %s ticker %d", in.ArticleID, in.TickerID)
	}
	return &stored, nil
}

const sentimentColumns = "news_article_tickers.article_id, news_article_tickers.ticker_id, " +
	"tickers.symbol, tickers.ticker_type, news_article_tickers.ticker_sentiment_score, " +
	"news_article_tickers.ticker_sentiment_label, news_article_tickers.relevance_score"

func (r *articleRepository) SentimentsFor(ctx context.Context, articleIDs []string) ([]models.TickerSentiment, error) {
	rows := []models.TickerSentiment{}
	if len(articleIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("news_article_tickers").
		Select(sentimentColumns).
		Joins("JOIN tickers ON tickers.ticker_id = news_article_tickers.ticker_id").
		Where("news_article_tickers.article_id IN ?", articleIDs).
		Order("news_article_tickers.article_id, tickers.symbol, tickers.ticker_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to load sentiments for %d articles", len(articleIDs))
	}
	return rows, nil
}

func nullDecimal(f models.Field[decimal.Decimal]) decimal.NullDecimal {
	if !f.Present() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: f.Value, Valid: true}
}
