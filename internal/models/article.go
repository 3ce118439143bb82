package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewsArticle is keyed by the fingerprint of its URL, see ArticleID.
type NewsArticle struct {
	ID                    string              `json:"articleId" gorm:"column:article_id;primaryKey;type:char(64)"`
	URL                   string              `json:"url" gorm:"size:2048;not null"`
	SourceDomain          *string             `json:"sourceDomain" gorm:"size:255;index:news_articles_source_domain_idx"`
	Title                 string              `json:"title" gorm:"type:text;not null"`
	Summary               *string             `json:"summary" gorm:"type:text"`
	OverallSentimentScore decimal.NullDecimal `json:"overallSentimentScore" gorm:"type:decimal(5,4)"`
	OverallSentimentLabel *string             `json:"overallSentimentLabel" gorm:"size:32"`
	PublishedAt           *time.Time          `json:"publishedAt" gorm:"index:news_articles_published_idx"`
	CreatedAt             time.Time           `json:"createdAt"`

	Sentiments []ArticleTickerSentiment `json:"-" gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for the NewsArticle model.
func (NewsArticle) TableName() string {
	return "news_articles"
}

// ArticleID returns the hex SHA-256 of the trimmed URL. Any client can compute it
// before the article exists.
func ArticleID(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return hex.EncodeToString(sum[:])
}

// ArticleTickerSentiment is the per-ticker sentiment of one article.
type ArticleTickerSentiment struct {
	ArticleID            string              `json:"articleId" gorm:"primaryKey;type:char(64)"`
	TickerID             uint                `json:"tickerId" gorm:"primaryKey;autoIncrement:false"`
	TickerSentimentScore decimal.NullDecimal `json:"tickerSentimentScore" gorm:"type:decimal(5,4)"`
	TickerSentimentLabel *string             `json:"tickerSentimentLabel" gorm:"size:32"`
	RelevanceScore       decimal.NullDecimal `json:"relevanceScore" gorm:"type:decimal(4,3)"`
}

// TableName returns the database table name for the ArticleTickerSentiment model.
func (ArticleTickerSentiment) TableName() string {
	return "news_article_tickers"
}

// TickerSentiment is a sentiment row joined with its ticker symbol.
type TickerSentiment struct {
	ArticleID            string              `json:"articleId"`
	TickerID             uint                `json:"tickerId"`
	Symbol               string              `json:"symbol"`
	Type                 TickerType          `json:"type" gorm:"column:ticker_type"`
	TickerSentimentScore decimal.NullDecimal `json:"tickerSentimentScore"`
	TickerSentimentLabel *string             `json:"tickerSentimentLabel"`
	RelevanceScore       decimal.NullDecimal `json:"relevanceScore"`
}

// ArticleWithTickers is an article with every ticker sentiment attached.
type ArticleWithTickers struct {
	NewsArticle
	Tickers []TickerSentiment `json:"tickers"`
}
