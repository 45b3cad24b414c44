package scraper

import (
	"context"
	"fmt"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
)

// FailureKind is the pipeline-level failure taxonomy. Fetch-stage and
// extraction-stage failures carry their own sub-kind; the structural kinds
// describe the absence of usable output rather than a remote failure.
type FailureKind string

const (
	FailureContentUnavailable FailureKind = "content_unavailable"
	FailureNoContentExtracted FailureKind = "no_content_extracted"
	FailureExtractionFailed   FailureKind = "extraction_failed"
	FailureNoStructuredData   FailureKind = "no_structured_data"
	FailureTimeout            FailureKind = "timeout"
)

// PipelineError is the single failure type the pipeline surfaces. FetchKind
// is set only for FailureContentUnavailable, ExtractKind only for
// FailureExtractionFailed.
type PipelineError struct {
	Kind        FailureKind
	FetchKind   fetcher.ErrorKind
	ExtractKind extractor.ErrorKind
	Err         error
}

func (e *PipelineError) Error() string {
	switch e.Kind {
	case FailureContentUnavailable:
		return fmt.Sprintf("pipeline failed (%s/%s): %v", e.Kind, e.FetchKind, e.Err)
	case FailureExtractionFailed:
		return fmt.Sprintf("pipeline failed (%s/%s): %v", e.Kind, e.ExtractKind, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("pipeline failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("pipeline failed (%s)", e.Kind)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

//go:generate go run go.uber.org/mock/mockgen -source=scraper.go -destination=mocks/mock.go -package=mocks
type Client interface {
	// ScrapePost runs the full fetch -> extract -> normalize pipeline for a
	// single post URL. Every failure is a *PipelineError.
	ScrapePost(ctx context.Context, url string) (*domain.Post, error)
}
