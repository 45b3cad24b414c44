package scraperimpl

import (
	"context"
	"time"
)

// fetchWithRetry runs the bounded fixed-delay fetch loop. The two failure
// modes exhaust differently on purpose:
//   - soft failures (the fetch completed but the content is empty or below
//     the minimum length) are retried and, on exhaustion, swallowed into an
//     empty result, meaning "no data extractable";
//   - hard failures (a classified fetch error) are retried too, but the
//     final attempt's error is surfaced to the caller.
//
// Collapsing these branches into one retry-on-anything loop would merge two
// caller-visible outcomes that must stay distinct.
func (s *ScraperImpl) fetchWithRetry(ctx context.Context, url string, maxAttempts int, delay time.Duration) (string, error) {
	minLength := s.Config.Scraper.MinContentLength

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := s.Fetcher.Fetch(ctx, url)
		if err != nil {
			if attempt == maxAttempts {
				return "", err
			}
			s.Logger.Warn("Fetch attempt failed, retrying", "url", url, "attempt", attempt, "error", err)
			if waitErr := s.wait(ctx, delay); waitErr != nil {
				return "", waitErr
			}
			continue
		}

		content := result.CombinedContent()
		if len(content) >= minLength {
			return content, nil
		}

		s.Logger.Warn("Fetch returned too little content, retrying",
			"url", url, "attempt", attempt, "content_length", len(content))
		if attempt == maxAttempts {
			break
		}
		if waitErr := s.wait(ctx, delay); waitErr != nil {
			return "", waitErr
		}
	}

	return "", nil
}

// wait sleeps for the retry delay but bails out when the overall deadline
// elapses first.
func (s *ScraperImpl) wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
