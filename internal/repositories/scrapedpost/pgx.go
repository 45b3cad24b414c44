package scrapedpost

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/repositories"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ScrapedPostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Upsert stores a scrape result, replacing any previous record for the same short code
func (p *Pgx) Upsert(ctx context.Context, post domain.ScrapedPost) error {
	query, args, err := repositories.SqBuilder.
		Insert("scraped_posts").
		Columns("short_code", "post_url", "data", "created_at").
		Values(post.ShortCode, post.PostURL, post.Data, time.Now()).
		Suffix("ON CONFLICT (short_code) DO UPDATE SET post_url = EXCLUDED.post_url, data = EXCLUDED.data, created_at = EXCLUDED.created_at").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

// GetByShortCode returns the cached record for a short code
func (p *Pgx) GetByShortCode(ctx context.Context, shortCode string) (*domain.ScrapedPost, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "short_code", "post_url", "data", "created_at").
		From("scraped_posts").
		Where(sq.Eq{"short_code": shortCode}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var post domain.ScrapedPost
	err = p.pg.QueryRow(ctx, query, args...).
		Scan(&post.ID, &post.ShortCode, &post.PostURL, &post.Data, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &post, nil
}

// CleanupOldRecords deletes records older than the specified duration
func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("scraped_posts").
		Where(sq.Lt{"created_at": cutoffTime}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
