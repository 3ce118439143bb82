// Package ingest imports news articles from RSS and Atom feeds.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/mmcdole/gofeed"
)

// Outcomes reported per feed item.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

const maxSummaryRunes = 2000

// ArticleCreator stores one article. service.ArticleService satisfies it.
type ArticleCreator interface {
	Create(ctx context.Context, in service.CreateArticleInput) (*models.NewsArticle, error)
}

// Recorder counts processed items by outcome. *metrics.Metrics satisfies it.
type Recorder interface {
	ArticleIngested(outcome string)
}

// Result summarizes one import run.
type Result struct {
	Created int
	Skipped int
	Failed  int
}

// Importer turns feed items into articles.
type Importer struct {
	parser   *gofeed.Parser
	articles ArticleCreator
	recorder Recorder
	timeout  time.Duration
}

// NewImporter creates a new Importer. recorder may be nil.
func NewImporter(articles ArticleCreator, recorder Recorder) *Importer {
	return &Importer{
		parser:   gofeed.NewParser(),
		articles: articles,
		recorder: recorder,
		timeout:  30 * time.Second,
	}
}

// Import fetches feedURL and creates one article per item with a link.
// Items whose article already exists are skipped. Per-item failures are
// logged and counted; only a feed that cannot be fetched or parsed fails
// the whole run.
func (i *Importer) Import(ctx context.Context, feedURL string) (Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	feed, err := i.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	var result Result
	for _, item := range feed.Items {
		in, ok := articleFromItem(item)
		if !ok {
			result.Skipped++
			i.record(OutcomeSkipped)
			continue
		}

		_, err := i.articles.Create(ctx, in)
		switch {
		case err == nil:
			result.Created++
			i.record(OutcomeCreated)
		case errors.Is(err, service.ErrConflict):
			result.Skipped++
			i.record(OutcomeSkipped)
		default:
			slog.WarnContext(ctx, "failed to import feed item", "url", in.URL, "error", err)
			result.Failed++
			i.record(OutcomeFailed)
		}
	}

	slog.InfoContext(ctx, "feed imported",
		"feed", feedURL,
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (i *Importer) record(outcome string) {
	if i.recorder != nil {
		i.recorder.ArticleIngested(outcome)
	}
}

func articleFromItem(item *gofeed.Item) (service.CreateArticleInput, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return service.CreateArticleInput{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = link
	}

	in := service.CreateArticleInput{
		Title: title,
		URL:   link,
	}
	if item.PublishedParsed != nil {
		in.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		in.PublishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	if summary = truncate(stripHTML(summary), maxSummaryRunes); summary != "" {
		in.Summary = &summary
	}
	return in, true
}

func stripHTML(text string) string {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
