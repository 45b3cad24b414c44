package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
	"github.com/orgball2608/insta-scraper-api/internal/repositories/scrapedpost"
	repomocks "github.com/orgball2608/insta-scraper-api/internal/repositories/scrapedpost/mocks"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
	scrapermocks "github.com/orgball2608/insta-scraper-api/internal/scraper/mocks"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testURL = "https://www.instagram.com/p/ABC123/"

func newTestServer(t *testing.T, sc scraper.Client, repo scrapedpost.Repository) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Port = 0
	cfg.Scraper.ScrapeTimeout = 5 * time.Second
	cfg.Scraper.CacheTTL = time.Hour
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Per = time.Second
	cfg.RateLimit.Burst = 1000

	return New(Opts{
		Config:   cfg,
		Logger:   logger.New(logger.Opts{}),
		Scraper:  sc,
		PostRepo: repo,
	})
}

func doScrape(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/scrape", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestServer(t, scrapermocks.NewMockClient(ctrl), repomocks.NewMockRepository(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, version, body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandleScrapeRejectsBadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestServer(t, scrapermocks.NewMockClient(ctrl), repomocks.NewMockRepository(ctrl))

	w := doScrape(s, `{"wrong_field": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doScrape(s, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScrapeRejectsInvalidURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestServer(t, scrapermocks.NewMockClient(ctrl), repomocks.NewMockRepository(ctrl))

	for _, url := range []string{
		"https://www.instagram.com/someuser/",
		"https://example.com/p/ABC123/",
		"ftp://instagram.com/p/ABC123/",
		"https://www.instagram.com/stories/someuser/123/",
	} {
		w := doScrape(s, `{"instagram_url": "`+url+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "url: %s", url)
	}
}

func TestHandleScrapeAcceptsPostReelAndTVURLs(t *testing.T) {
	for _, url := range []string{
		"https://www.instagram.com/p/ABC123/",
		"https://instagram.com/reel/C4fGh1jKl",
		"http://www.instagram.com/tv/QQQ/",
	} {
		ctrl := gomock.NewController(t)
		mockScraper := scrapermocks.NewMockClient(ctrl)
		mockRepo := repomocks.NewMockRepository(ctrl)

		mockRepo.EXPECT().GetByShortCode(gomock.Any(), gomock.Any()).Return(nil, scrapedpost.ErrNotFound)
		mockScraper.EXPECT().ScrapePost(gomock.Any(), url).Return(&domain.Post{ShortCode: "ABC123", URL: url}, nil)
		mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

		s := newTestServer(t, mockScraper, mockRepo)

		w := doScrape(s, `{"instagram_url": "`+url+`"}`)
		assert.Equal(t, http.StatusOK, w.Code, "url: %s", url)
	}
}

func TestHandleScrapeSuccessStoresInCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockScraper := scrapermocks.NewMockClient(ctrl)
	mockRepo := repomocks.NewMockRepository(ctrl)

	post := &domain.Post{ShortCode: "ABC123", URL: testURL, Caption: "hello"}

	mockRepo.EXPECT().GetByShortCode(gomock.Any(), "ABC123").Return(nil, scrapedpost.ErrNotFound)
	mockScraper.EXPECT().ScrapePost(gomock.Any(), testURL).Return(post, nil)
	mockRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, stored domain.ScrapedPost) error {
			assert.Equal(t, "ABC123", stored.ShortCode)
			assert.Equal(t, testURL, stored.PostURL)
			return nil
		})

	s := newTestServer(t, mockScraper, mockRepo)

	w := doScrape(s, `{"instagram_url": "`+testURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "hello", resp.Data.Caption)
}

func TestHandleScrapeServesFreshCacheWithoutPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockScraper := scrapermocks.NewMockClient(ctrl)
	mockRepo := repomocks.NewMockRepository(ctrl)

	data, err := json.Marshal(&domain.Post{ShortCode: "ABC123", Caption: "cached"})
	require.NoError(t, err)

	mockRepo.EXPECT().
		GetByShortCode(gomock.Any(), "ABC123").
		Return(&domain.ScrapedPost{
			ShortCode: "ABC123",
			PostURL:   testURL,
			Data:      data,
			CreatedAt: time.Now(),
		}, nil)

	s := newTestServer(t, mockScraper, mockRepo)

	w := doScrape(s, `{"instagram_url": "`+testURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cached", resp.Data.Caption)
}

func TestHandleScrapeIgnoresStaleCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockScraper := scrapermocks.NewMockClient(ctrl)
	mockRepo := repomocks.NewMockRepository(ctrl)

	data, err := json.Marshal(&domain.Post{ShortCode: "ABC123", Caption: "stale"})
	require.NoError(t, err)

	mockRepo.EXPECT().
		GetByShortCode(gomock.Any(), "ABC123").
		Return(&domain.ScrapedPost{
			ShortCode: "ABC123",
			Data:      data,
			CreatedAt: time.Now().Add(-48 * time.Hour),
		}, nil)
	mockScraper.EXPECT().
		ScrapePost(gomock.Any(), testURL).
		Return(&domain.Post{ShortCode: "ABC123", Caption: "fresh"}, nil)
	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	s := newTestServer(t, mockScraper, mockRepo)

	w := doScrape(s, `{"instagram_url": "`+testURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fresh", resp.Data.Caption)
}

func TestStatusForPipelineErrorIsTotal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fetch not found", &scraper.PipelineError{Kind: scraper.FailureContentUnavailable, FetchKind: fetcher.KindNotFound}, http.StatusNotFound},
		{"fetch access denied", &scraper.PipelineError{Kind: scraper.FailureContentUnavailable, FetchKind: fetcher.KindAccessDenied}, http.StatusNotFound},
		{"fetch rate limited", &scraper.PipelineError{Kind: scraper.FailureContentUnavailable, FetchKind: fetcher.KindRateLimited}, http.StatusTooManyRequests},
		{"fetch generic", &scraper.PipelineError{Kind: scraper.FailureContentUnavailable, FetchKind: fetcher.KindGeneric}, http.StatusBadGateway},
		{"no content", &scraper.PipelineError{Kind: scraper.FailureNoContentExtracted}, http.StatusNotFound},
		{"no structured data", &scraper.PipelineError{Kind: scraper.FailureNoStructuredData}, http.StatusNotFound},
		{"extract malformed", &scraper.PipelineError{Kind: scraper.FailureExtractionFailed, ExtractKind: extractor.KindMalformedOutput}, http.StatusInternalServerError},
		{"extract auth", &scraper.PipelineError{Kind: scraper.FailureExtractionFailed, ExtractKind: extractor.KindAuthError}, http.StatusServiceUnavailable},
		{"extract quota", &scraper.PipelineError{Kind: scraper.FailureExtractionFailed, ExtractKind: extractor.KindQuotaExceeded}, http.StatusServiceUnavailable},
		{"extract rate limited", &scraper.PipelineError{Kind: scraper.FailureExtractionFailed, ExtractKind: extractor.KindRateLimited}, http.StatusServiceUnavailable},
		{"extract generic", &scraper.PipelineError{Kind: scraper.FailureExtractionFailed, ExtractKind: extractor.KindGeneric}, http.StatusInternalServerError},
		{"timeout", &scraper.PipelineError{Kind: scraper.FailureTimeout}, http.StatusRequestTimeout},
		{"unknown kind", &scraper.PipelineError{Kind: "???"}, http.StatusInternalServerError},
		{"not a pipeline error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusForPipelineError(tt.err)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, message)
		})
	}
}

func TestHandleScrapeMapsPipelineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockScraper := scrapermocks.NewMockClient(ctrl)
	mockRepo := repomocks.NewMockRepository(ctrl)

	mockRepo.EXPECT().GetByShortCode(gomock.Any(), "ABC123").Return(nil, scrapedpost.ErrNotFound)
	mockScraper.EXPECT().
		ScrapePost(gomock.Any(), testURL).
		Return(nil, &scraper.PipelineError{Kind: scraper.FailureContentUnavailable, FetchKind: fetcher.KindRateLimited})

	s := newTestServer(t, mockScraper, mockRepo)

	w := doScrape(s, `{"instagram_url": "`+testURL+`"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestRateLimitMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockScraper := scrapermocks.NewMockClient(ctrl)
	mockRepo := repomocks.NewMockRepository(ctrl)

	s := newTestServer(t, mockScraper, mockRepo)
	// One request per hour, no burst headroom beyond the first.
	cfg := s.Config
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Per = time.Hour
	cfg.RateLimit.Burst = 1
	s2 := New(Opts{Config: cfg, Logger: s.Logger, Scraper: mockScraper, PostRepo: mockRepo})

	// First request passes the limiter (and fails validation, which is fine).
	w := doScrape(s2, `{"instagram_url": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doScrape(s2, `{"instagram_url": "nope"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
