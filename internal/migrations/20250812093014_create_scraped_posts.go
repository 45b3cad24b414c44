package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateScrapedPosts, downCreateScrapedPosts)
}

func upCreateScrapedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE scraped_posts (
		id SERIAL PRIMARY KEY,
		short_code VARCHAR NOT NULL UNIQUE,
		post_url VARCHAR NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	CREATE INDEX idx_scraped_posts_created_at ON scraped_posts (created_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateScrapedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE scraped_posts;
	`)
	if err != nil {
		return err
	}
	return nil
}
