package handlers

import (
	"net/http"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// ArticleHandler handles news articles and their per-ticker sentiment.
type ArticleHandler struct {
	articles service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler instance.
func NewArticleHandler(articles service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// Create stores an article keyed by the fingerprint of its URL.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req service.CreateArticleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articles.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "failed to create article")
		return
	}

	c.JSON(http.StatusCreated, article)
}

// FindArticleID returns the id an article with the given URL has or would
// have. The URL must be percent-encoded into a single path segment.
func (h *ArticleHandler) FindArticleID(c *gin.Context) {
	rawURL := c.Param("url")
	if rawURL == "" {
		rawURL = c.Query("url")
	}

	id, err := h.articles.FindArticleID(rawURL)
	if err != nil {
		respondServiceError(c, err, "failed to compute article id")
		return
	}

	c.JSON(http.StatusOK, gin.H{"articleId": id})
}

// UpsertSentiment inserts or patches one article's sentiment for a ticker.
// Omitted fields are left unchanged and null clears a field.
func (h *ArticleHandler) UpsertSentiment(c *gin.Context) {
	var req service.SentimentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.articles.UpsertSentiment(c.Request.Context(), c.Param("articleId"), req)
	if err != nil {
		respondServiceError(c, err, "failed to upsert sentiment")
		return
	}

	c.JSON(http.StatusOK, row)
}

// List returns articles newest first, optionally only those mentioning ?ticker=.
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), c.Query("ticker"), c.Query("type"))
	if err != nil {
		respondServiceError(c, err, "failed to list articles")
		return
	}
	if articles == nil {
		articles = []models.ArticleWithTickers{}
	}

	c.JSON(http.StatusOK, articles)
}
