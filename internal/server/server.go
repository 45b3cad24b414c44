package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/insta-scraper-api/internal/ratelimit"
	"github.com/orgball2608/insta-scraper-api/internal/repositories/scrapedpost"
	"github.com/orgball2608/insta-scraper-api/internal/scraper"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"go.uber.org/fx"
)

const version = "1.0.0"

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Scraper  scraper.Client
	PostRepo scrapedpost.Repository
}

type Server struct {
	Config   *config.Config
	Logger   logger.Logger
	Scraper  scraper.Client
	PostRepo scrapedpost.Repository

	engine  *gin.Engine
	limiter ratelimit.Limiter
	http    *http.Server
}

func New(opts Opts) *Server {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Config:   opts.Config,
		Logger:   opts.Logger.WithComponent("Server"),
		Scraper:  opts.Scraper,
		PostRepo: opts.PostRepo,
		limiter: ratelimit.NewInMemoryLimiter(
			opts.Config.RateLimit.Requests,
			opts.Config.RateLimit.Per,
			opts.Config.RateLimit.Burst,
		),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)
	engine.POST("/scrape", s.rateLimitMiddleware(), s.handleScrape)

	s.engine = engine
	return s
}

// Start begins serving HTTP traffic. It returns once the listener is up.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.App.Port),
		Handler: s.engine,
	}

	go func() {
		s.Logger.Info("Starting HTTP server", "port", s.Config.App.Port)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("HTTP server failed", "error", err)
		}
	}()

	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// ScheduleCacheCleanup sets up a daily job that deletes stale cache rows.
func (s *Server) ScheduleCacheCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	// Run at 3:00 AM every day
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.Logger.Info("Context cancelled, stopping cache cleanup job")
				return
			}

			s.Logger.Info("Starting scheduled cache cleanup job")

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			rowsDeleted, err := s.PostRepo.CleanupOldRecords(cleanupCtx, s.Config.Scraper.CacheRetention)
			if err != nil {
				s.Logger.Error("Failed to clean up old cache records", "error", err)
				return
			}

			s.Logger.Info("Cache cleanup completed successfully", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		s.Logger.Info("Stopping cache cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			s.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}

// rateLimitMiddleware rejects clients that exceed their per-IP budget.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			s.Logger.Warn("Rate limit exceeded", "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
