package scrapedpost

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
)

var ErrNotFound = errors.New("scraped post not found")

//go:generate go run go.uber.org/mock/mockgen -source=scrapedpost.go -destination=mocks/mock.go -package=mocks
type Repository interface {
	// Upsert stores a scrape result, replacing any previous record for the
	// same short code
	Upsert(ctx context.Context, post domain.ScrapedPost) error

	// GetByShortCode returns the cached record for a short code
	GetByShortCode(ctx context.Context, shortCode string) (*domain.ScrapedPost, error)

	// CleanupOldRecords deletes records older than the specified duration
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
