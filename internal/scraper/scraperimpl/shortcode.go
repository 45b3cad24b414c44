package scraperimpl

import (
	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
)

// backfill fills the two fields that are derivable deterministically and
// must not be left to the extractor: the source URL and the short code.
func backfill(post *domain.Post, url string) {
	if post.URL == "" {
		post.URL = url
	}
	if post.ShortCode == "" {
		post.ShortCode = scraper.ShortCodeFromURL(url)
	}
}
