package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
	"github.com/orgball2608/insta-scraper-api/internal/repositories/scrapedpost"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
)

// ScrapeRequest is the body of POST /scrape.
type ScrapeRequest struct {
	InstagramURL string `json:"instagram_url" binding:"required"`
}

// ScrapeResponse is the envelope every /scrape reply uses.
type ScrapeResponse struct {
	Success bool         `json:"success"`
	Data    *domain.Post `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

var postURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/p/[A-Za-z0-9_-]+/?$`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/reel/[A-Za-z0-9_-]+/?$`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/tv/[A-Za-z0-9_-]+/?$`),
}

func isValidPostURL(url string) bool {
	for _, pattern := range postURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

func (s *Server) handleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ScrapeResponse{
			Success: false,
			Error:   "Invalid request format",
		})
		return
	}

	if !isValidPostURL(req.InstagramURL) {
		c.JSON(http.StatusBadRequest, ScrapeResponse{
			Success: false,
			Error:   "Invalid Instagram URL format",
		})
		return
	}

	s.Logger.Info("Scrape request received", "url", req.InstagramURL, "client_ip", c.ClientIP())

	if post := s.cachedPost(c.Request.Context(), req.InstagramURL); post != nil {
		c.JSON(http.StatusOK, ScrapeResponse{Success: true, Data: post})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.Config.Scraper.ScrapeTimeout)
	defer cancel()

	post, err := s.Scraper.ScrapePost(ctx, req.InstagramURL)
	if err != nil {
		status, message := statusForPipelineError(err)
		s.Logger.Warn("Scrape failed", "url", req.InstagramURL, "status", status, "error", err)
		c.JSON(status, ScrapeResponse{Success: false, Error: message})
		return
	}

	s.storeInCache(req.InstagramURL, post)

	s.Logger.Info("Scrape succeeded", "url", req.InstagramURL, "short_code", post.ShortCode)
	c.JSON(http.StatusOK, ScrapeResponse{Success: true, Data: post})
}

// cachedPost returns a previously scraped record when it is still fresh.
func (s *Server) cachedPost(ctx context.Context, url string) *domain.Post {
	shortCode := scraper.ShortCodeFromURL(url)
	if shortCode == "" {
		return nil
	}

	record, err := s.PostRepo.GetByShortCode(ctx, shortCode)
	if err != nil {
		if !errors.Is(err, scrapedpost.ErrNotFound) {
			s.Logger.Warn("Cache lookup failed", "short_code", shortCode, "error", err)
		}
		return nil
	}
	if time.Since(record.CreatedAt) > s.Config.Scraper.CacheTTL {
		return nil
	}

	var post domain.Post
	if err := json.Unmarshal(record.Data, &post); err != nil {
		s.Logger.Warn("Cached record is unreadable, ignoring it", "short_code", shortCode, "error", err)
		return nil
	}

	s.Logger.Info("Serving scrape result from cache", "short_code", shortCode)
	return &post
}

func (s *Server) storeInCache(url string, post *domain.Post) {
	if post.ShortCode == "" {
		return
	}

	data, err := json.Marshal(post)
	if err != nil {
		s.Logger.Warn("Failed to encode post for cache", "short_code", post.ShortCode, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.PostRepo.Upsert(ctx, domain.ScrapedPost{
		ShortCode: post.ShortCode,
		PostURL:   url,
		Data:      data,
	}); err != nil {
		s.Logger.Warn("Failed to cache scrape result", "short_code", post.ShortCode, "error", err)
	}
}

// statusForPipelineError maps every pipeline failure to a transport status
// and user-facing message. The mapping is total: anything unrecognized still
// lands on a 500.
func statusForPipelineError(err error) (int, string) {
	var pipelineErr *scraper.PipelineError
	if !errors.As(err, &pipelineErr) {
		return http.StatusInternalServerError, "An unexpected error occurred during scraping"
	}

	switch pipelineErr.Kind {
	case scraper.FailureContentUnavailable:
		switch pipelineErr.FetchKind {
		case fetcher.KindNotFound, fetcher.KindAccessDenied:
			return http.StatusNotFound, "Instagram post is private, deleted, or not accessible"
		case fetcher.KindRateLimited:
			return http.StatusTooManyRequests, "Instagram is rate limiting requests. Please try again later."
		default:
			return http.StatusBadGateway, "Failed to load the Instagram post page"
		}
	case scraper.FailureNoContentExtracted, scraper.FailureNoStructuredData:
		return http.StatusNotFound, "Unable to extract data from Instagram post. The post may be private or inaccessible."
	case scraper.FailureExtractionFailed:
		switch pipelineErr.ExtractKind {
		case extractor.KindAuthError, extractor.KindQuotaExceeded, extractor.KindRateLimited:
			return http.StatusServiceUnavailable, "AI processing service is temporarily unavailable"
		default:
			return http.StatusInternalServerError, "An error occurred while processing the post content"
		}
	case scraper.FailureTimeout:
		return http.StatusRequestTimeout, "Scraping timeout. The request took too long to process."
	}

	return http.StatusInternalServerError, "An unexpected error occurred during scraping"
}
