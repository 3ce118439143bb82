package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	maxLabelLength = 32
	maxURLLength   = 2048
	scorePlaces    = 4
	relevPlaces    = 3
)

var (
	minScore     = decimal.NewFromInt(-1)
	maxScore     = decimal.NewFromInt(1)
	minRelevance = decimal.Zero
	maxRelevance = decimal.NewFromInt(1)
)

// Accepted publishedAt layouts, tried in order. Zone-less layouts are UTC.
var publishedLayouts = []string{
	"20060102T150405",
	"20060102T1504",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CreateArticleInput is the payload for creating an article.
type CreateArticleInput struct {
	Title                 string           `json:"title"`
	URL                   string           `json:"url"`
	PublishedAt           string           `json:"publishedAt,omitempty"`
	Summary               *string          `json:"summary,omitempty"`
	SourceDomain          *string          `json:"sourceDomain,omitempty"`
	OverallSentimentScore *decimal.Decimal `json:"overallSentimentScore,omitempty"`
	OverallSentimentLabel *string          `json:"overallSentimentLabel,omitempty"`
}

// SentimentInput is the payload for upserting one ticker sentiment. Absent
// fields keep their stored value; explicit nulls clear it.
type SentimentInput struct {
	TickerSymbol         string                        `json:"tickerSymbol"`
	TickerType           string                        `json:"tickerType,omitempty"`
	TickerSentimentScore models.Field[decimal.Decimal] `json:"tickerSentimentScore"`
	TickerSentimentLabel models.Field[string]          `json:"tickerSentimentLabel"`
	RelevanceScore       models.Field[decimal.Decimal] `json:"relevanceScore"`
}

// ArticleService manages articles and their per-ticker sentiments.
type ArticleService interface {
	Create(ctx context.Context, in CreateArticleInput) (*models.NewsArticle, error)
	// FindArticleID returns the fingerprint of rawURL without reading the store.
	FindArticleID(rawURL string) (string, error)
	UpsertSentiment(ctx context.Context, articleID string, in SentimentInput) (*models.TickerSentiment, error)
	// List returns articles newest first with every sentiment attached. A
	// non-empty symbol keeps only articles carrying a sentiment for it.
	List(ctx context.Context, symbol, tickerType string) ([]models.ArticleWithTickers, error)
}

type articleService struct {
	articles repository.ArticleRepository
	tickers  repository.TickerRepository
	notify   notifier
}

// NewArticleService creates a new ArticleService instance. publisher and
// recorder may be nil.
func NewArticleService(
	articles repository.ArticleRepository,
	tickers repository.TickerRepository,
	publisher events.Publisher,
	recorder Recorder,
) ArticleService {
	return &articleService{
		articles: articles,
		tickers:  tickers,
		notify:   newNotifier(publisher, recorder),
	}
}

func (s *articleService) Create(ctx context.Context, in CreateArticleInput) (*models.NewsArticle, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	rawURL := strings.TrimSpace(in.URL)
	if rawURL == "" {
		return nil, validationError("url is required")
	}
	if len(rawURL) > maxURLLength {
		return nil, validationError("url must be at most %d characters", maxURLLength)
	}

	article := &models.NewsArticle{
		ID:                    models.ArticleID(rawURL),
		URL:                   rawURL,
		Title:                 title,
		Summary:               trimmedOrNil(in.Summary),
		SourceDomain:          trimmedOrNil(in.SourceDomain),
		OverallSentimentLabel: trimmedOrNil(in.OverallSentimentLabel),
	}
	if article.SourceDomain == nil {
		if parsed, err := url.Parse(rawURL); err == nil && parsed.Hostname() != "" {
			host := strings.ToLower(parsed.Hostname())
			article.SourceDomain = &host
		}
	}
	if in.PublishedAt != "" {
		published, err := parsePublishedAt(in.PublishedAt)
		if err != nil {
			return nil, err
		}
		article.PublishedAt = &published
	}
	if in.OverallSentimentScore != nil {
		score, err := checkRange(*in.OverallSentimentScore, minScore, maxScore, scorePlaces, "overallSentimentScore")
		if err != nil {
			return nil, err
		}
		article.OverallSentimentScore = decimal.NewNullDecimal(score)
	}
	if err := checkLabel(article.OverallSentimentLabel, "overallSentimentLabel"); err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, classify(err, "create article", nil, ErrArticleExists, nil)
	}
	return article, nil
}

func (s *articleService) FindArticleID(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", validationError("url is required")
	}
	return models.ArticleID(rawURL), nil
}

func (s *articleService) UpsertSentiment(ctx context.Context, articleID string, in SentimentInput) (*models.TickerSentiment, error) {
	score, err := checkField(in.TickerSentimentScore, minScore, maxScore, scorePlaces, "tickerSentimentScore")
	if err != nil {
		return nil, err
	}
	relevance, err := checkField(in.RelevanceScore, minRelevance, maxRelevance, relevPlaces, "relevanceScore")
	if err != nil {
		return nil, err
	}
	label := in.TickerSentimentLabel
	if label.Present() {
		label.Value = strings.TrimSpace(label.Value)
		if err := checkLabel(&label.Value, "tickerSentimentLabel"); err != nil {
			return nil, err
		}
	}

	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, classify(err, "find article", ErrArticleNotFound, nil, nil)
	}
	ticker, err := resolveOrCreateTicker(ctx, s.tickers, in.TickerSymbol, in.TickerType)
	if err != nil {
		return nil, err
	}

	row, err := s.articles.UpsertSentiment(ctx, repository.SentimentUpsert{
		ArticleID: articleID,
		TickerID:  ticker.ID,
		Score:     score,
		Label:     label,
		Relevance: relevance,
	})
	switch {
	case errors.Is(err, repository.ErrForeignKey):
		return nil, ErrArticleNotFound
	case errors.Is(err, repository.ErrNotFound):
		// The write succeeded but the row is gone on re-read.
		return nil, persistence(err, "re-read sentiment")
	case err != nil:
		return nil, persistence(err, "upsert sentiment")
	}

	result := &models.TickerSentiment{
		ArticleID:            row.ArticleID,
		TickerID:             row.TickerID,
		Symbol:               ticker.Symbol,
		Type:                 ticker.Type,
		TickerSentimentScore: row.TickerSentimentScore,
		TickerSentimentLabel: row.TickerSentimentLabel,
		RelevanceScore:       row.RelevanceScore,
	}
	s.notify.recorder.SentimentUpsert()
	s.notify.publish(ctx, events.SentimentUpserted, articleID, result)
	return result, nil
}

func (s *articleService) List(ctx context.Context, symbol, tickerType string) ([]models.ArticleWithTickers, error) {
	var (
		articles []models.NewsArticle
		err      error
	)

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		articles, err = s.articles.List(ctx)
		if err != nil {
			return nil, persistence(err, "list articles")
		}
	} else {
		tt, typeErr := parseTickerType(tickerType, false)
		if typeErr != nil {
			return nil, typeErr
		}
		ticker, findErr := s.tickers.FindBySymbol(ctx, symbol, tt)
		if errors.Is(findErr, repository.ErrNotFound) {
			return []models.ArticleWithTickers{}, nil
		}
		if findErr != nil {
			return nil, persistence(findErr, "find ticker")
		}
		articles, err = s.articles.ListByTicker(ctx, ticker.ID)
		if err != nil {
			return nil, persistence(err, "list articles by ticker")
		}
	}

	articles = dedupArticles(articles)
	ids := make([]string, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}

	sentiments, err := s.articles.SentimentsFor(ctx, ids)
	if err != nil {
		return nil, persistence(err, "load sentiments")
	}
	byArticle := make(map[string][]models.TickerSentiment, len(articles))
	for _, row := range sentiments {
		byArticle[row.ArticleID] = append(byArticle[row.ArticleID], row)
	}

	result := make([]models.ArticleWithTickers, len(articles))
	for i, article := range articles {
		tickers := byArticle[article.ID]
		if tickers == nil {
			tickers = []models.TickerSentiment{}
		}
		result[i] = models.ArticleWithTickers{NewsArticle: article, Tickers: tickers}
	}
	return result, nil
}

// dedupArticles keeps the first occurrence of each article, preserving order.
func dedupArticles(articles []models.NewsArticle) []models.NewsArticle {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, article := range articles {
		if _, ok := seen[article.ID]; ok {
			continue
		}
		seen[article.ID] = struct{}{}
		out = append(out, article)
	}
	return out
}

func parsePublishedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range publishedLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("publishedAt %q is not ISO-8601 or YYYYMMDDTHHMMSS", value)
}

func checkField(f models.Field[decimal.Decimal], lo, hi decimal.Decimal, places int32, name string) (models.Field[decimal.Decimal], error) {
	if !f.Present() {
		return f, nil
	}
	v, err := checkRange(f.Value, lo, hi, places, name)
	if err != nil {
		return f, err
	}
	return models.Some(v), nil
}

func checkRange(v, lo, hi decimal.Decimal, places int32, name string) (decimal.Decimal, error) {
	if v.LessThan(lo) || v.GreaterThan(hi) {
		return v, validationError("%s must be between %s and %s", name, lo, hi)
	}
	return v.Round(places), nil
}

func checkLabel(label *string, name string) error {
	if label != nil && utf8.RuneCountInString(*label) > maxLabelLength {
		return validationError("%s must be at most %d characters", name, maxLabelLength)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
