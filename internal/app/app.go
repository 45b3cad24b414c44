package app

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/internal/extractor/openaiimpl"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher/playwrightimpl"
	_ "github.com/orgball2608/insta-scraper-api/internal/migrations"
	repositories "github.com/orgball2608/insta-scraper-api/internal/repositories/fx"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
	"github.com/orgball2608/insta-scraper-api/internal/scraper/scraperimpl"
	"github.com/orgball2608/insta-scraper-api/internal/server"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	pkgerrors "github.com/orgball2608/insta-scraper-api/pkg/errors"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"github.com/orgball2608/insta-scraper-api/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		playwrightimpl.NewPlaywrightManager,
	),
	fx.Provide(
		fx.Annotate(
			playwrightimpl.New,
			fx.As(new(fetcher.Client)),
		),
		fx.Annotate(
			openaiimpl.New,
			fx.As(new(extractor.Client)),
		),
		fx.Annotate(
			scraperimpl.New,
			fx.As(new(scraper.Client)),
		),
		server.New,
	),
	repositories.Module,
	fx.Invoke(runMigrations),
	fx.Invoke(run),
)

func runMigrations(cfg *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open database for migrations")
	}
	defer db.Close()

	// Migrations are registered in code; no filesystem directory is needed.
	if err := goose.Up(db, "."); err != nil {
		return pkgerrors.Wrap(err, "failed to apply migrations")
	}
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, srv *server.Server) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := srv.ScheduleCacheCleanup(ctx); err != nil {
				log.Error("Failed to schedule cache cleanup", "error", err)
				return err
			}
			return srv.Start()
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return srv.Stop(stopCtx)
		},
	})
}
