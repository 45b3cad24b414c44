package scraperimpl

import (
	"context"
	"errors"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Fetcher   fetcher.Client
	Extractor extractor.Client
	Logger    logger.Logger
	Config    *config.Config
}

type ScraperImpl struct {
	Fetcher   fetcher.Client
	Extractor extractor.Client
	Logger    logger.Logger
	Config    *config.Config
}

func New(opts Opts) *ScraperImpl {
	return &ScraperImpl{
		Fetcher:   opts.Fetcher,
		Extractor: opts.Extractor,
		Logger:    opts.Logger.WithComponent("Scraper"),
		Config:    opts.Config,
	}
}

var _ scraper.Client = (*ScraperImpl)(nil)

// ScrapePost runs one pipeline invocation: fetch with retry, extract,
// backfill, normalize. It runs to completion or failure within the overall
// deadline and shares no state with concurrent invocations.
func (s *ScraperImpl) ScrapePost(ctx context.Context, url string) (*domain.Post, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Scraper.ScrapeTimeout)
		defer cancel()
	}

	s.Logger.Info("Starting scrape pipeline", "url", url)

	content, err := s.fetchWithRetry(ctx, url, s.Config.Scraper.MaxFetchAttempts, s.Config.Scraper.RetryDelay)
	if err != nil {
		return nil, s.fetchFailure(ctx, err)
	}
	if content == "" {
		// Soft-failure exhaustion: the page answered but never produced
		// usable content. Distinct from a classified fetch error.
		s.Logger.Warn("No content extracted after retries", "url", url)
		return nil, &scraper.PipelineError{Kind: scraper.FailureNoContentExtracted}
	}

	post, err := s.Extractor.Extract(ctx, content, url)
	if err != nil {
		return nil, s.extractFailure(ctx, err)
	}
	if post == nil {
		s.Logger.Warn("Extractor returned no structured data", "url", url)
		return nil, &scraper.PipelineError{Kind: scraper.FailureNoStructuredData}
	}

	backfill(post, url)
	Normalize(post)

	s.Logger.Info("Scrape pipeline finished", "url", url, "short_code", post.ShortCode, "type", post.Type)
	return post, nil
}

func (s *ScraperImpl) fetchFailure(ctx context.Context, err error) *scraper.PipelineError {
	if timedOut(ctx, err) {
		return &scraper.PipelineError{Kind: scraper.FailureTimeout, Err: err}
	}

	var fetchErr *fetcher.Error
	if errors.As(err, &fetchErr) {
		return &scraper.PipelineError{
			Kind:      scraper.FailureContentUnavailable,
			FetchKind: fetchErr.Kind,
			Err:       err,
		}
	}
	// An unclassified error must still land in a bucket.
	return &scraper.PipelineError{
		Kind:      scraper.FailureContentUnavailable,
		FetchKind: fetcher.KindGeneric,
		Err:       err,
	}
}

func (s *ScraperImpl) extractFailure(ctx context.Context, err error) *scraper.PipelineError {
	if timedOut(ctx, err) {
		return &scraper.PipelineError{Kind: scraper.FailureTimeout, Err: err}
	}

	var extractErr *extractor.Error
	if errors.As(err, &extractErr) {
		return &scraper.PipelineError{
			Kind:        scraper.FailureExtractionFailed,
			ExtractKind: extractErr.Kind,
			Err:         err,
		}
	}
	return &scraper.PipelineError{
		Kind:        scraper.FailureExtractionFailed,
		ExtractKind: extractor.KindGeneric,
		Err:         err,
	}
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
