package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"econtent/generation"
	"econtent/rssfeeds"
	"econtent/types"
)

// FetchNewsRequest names the feeds to pull. Entries may be preset names or
// full feed URLs.
type FetchNewsRequest struct {
	Feeds []string `json:"feeds" binding:"required"`
	Limit int      `json:"limit"`
}

// FetchNewsResponse carries the fetched news items
type FetchNewsResponse struct {
	NewsItems []*types.NewsItem `json:"news_items"`
	Count     int               `json:"count"`
}

// SummarizeRequest carries raw article text to condense
type SummarizeRequest struct {
	Text string `json:"text" binding:"required"`
}

// HeadlinesRequest carries summarized text to build headline variants from
type HeadlinesRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) registerNewsRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/fetch-news", s.handleFetchNews)
	g.POST("/summarize", s.handleSummarize)
	g.POST("/headlines", s.handleHeadlines)
}

// handleFetchNews pulls the latest items from each requested feed. Feeds
// that fail are skipped; the call only errors when nothing was fetched.
func (s *Server) handleFetchNews(c *gin.Context) {
	var req FetchNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = rssfeeds.DefaultLimit
	}

	var items []*types.NewsItem
	for _, feed := range req.Feeds {
		feedURL := rssfeeds.ResolveFeedURL(feed)
		fetched, err := rssfeeds.FetchLatest(c.Request.Context(), feedURL, limit)
		if err != nil {
			log.Printf("Skipping feed %s: %v", feedURL, err)
			continue
		}
		items = append(items, fetched...)
	}

	if len(items) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no news items could be fetched from the requested feeds"})
		return
	}

	c.JSON(http.StatusOK, FetchNewsResponse{NewsItems: items, Count: len(items)})
}

// handleSummarize condenses raw article text into a summary with key facts
func (s *Server) handleSummarize(c *gin.Context) {
	if s.deps.Summarize == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation credential is not configured"})
		return
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := s.deps.Summarize.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// handleHeadlines builds the three headline variants for summarized text
func (s *Server) handleHeadlines(c *gin.Context) {
	if s.deps.Headlines == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation credential is not configured"})
		return
	}

	var req HeadlinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variants, err := s.deps.Headlines.Generate(c.Request.Context(), req.Text)
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, variants)
}

// writeGenerationError maps generation failures onto HTTP statuses: bad
// input from the caller is a 400, upstream model trouble is a 502.
func writeGenerationError(c *gin.Context, err error) {
	var genErr *generation.GenerationError
	if errors.As(err, &genErr) && genErr.Stage == "input" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
