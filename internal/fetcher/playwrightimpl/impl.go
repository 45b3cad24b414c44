package playwrightimpl

import (
	"context"
	"fmt"
	"runtime/debug"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/orgball2608/insta-scraper-api/internal/fetcher"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"github.com/orgball2608/insta-scraper-api/pkg/retry"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// PlaywrightManager manages the playwright instance
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  logger.Logger
}

// Browser returns the browser instance
func (pm *PlaywrightManager) Browser() playwright.Browser {
	return pm.browser
}

// NewPlaywrightManager creates a new playwright manager
func NewPlaywrightManager(lc fx.Lifecycle, log logger.Logger) (*PlaywrightManager, error) {
	log.Info("Initializing Playwright Manager...")
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage", // Important in Docker/container
			"--disable-accelerated-2d-canvas",
			"--no-first-run",
			"--no-zygote",
			"--disable-gpu",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	manager := &PlaywrightManager{
		pw:      pw,
		browser: browser,
		logger:  log,
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Playwright browser...")
			if err := manager.browser.Close(); err != nil {
				log.Error("Failed to close playwright browser", "error", err)
			}
			if err := manager.pw.Stop(); err != nil {
				log.Error("Failed to stop playwright", "error", err)
				return err
			}
			log.Info("Playwright stopped successfully.")
			return nil
		},
	})
	log.Info("Playwright Manager initialized successfully.")
	return manager, nil
}

type Opts struct {
	fx.In
	Config     *config.Config
	Logger     logger.Logger
	Playwright *PlaywrightManager
}

type Adapter struct {
	config     *config.Config
	logger     logger.Logger
	playwright *PlaywrightManager
	classify   fetcher.Classifier
	converter  *md.Converter
}

func New(opts Opts) fetcher.Client {
	return &Adapter{
		config:     opts.Config,
		logger:     opts.Logger.WithComponent("Fetcher"),
		playwright: opts.Playwright,
		classify:   fetcher.DefaultClassifier,
		converter:  md.NewConverter("", true, nil),
	}
}

var _ fetcher.Client = (*Adapter)(nil)

// Fetch renders the post page and returns its content as markdown plus any
// media references found in the DOM. All failures come back classified.
func (a *Adapter) Fetch(ctx context.Context, url string) (*fetcher.Result, error) {
	page, cleanup, err := a.newScrapingPage(ctx, url)
	if err != nil {
		return nil, a.classified(err)
	}
	defer cleanup()

	waitTimeout := float64(a.config.Scraper.FetchTimeout.Milliseconds())

	// The post body renders inside an article element; wait for it so the
	// dynamic content is present before the snapshot.
	if _, err := page.WaitForSelector("article", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(waitTimeout),
	}); err != nil {
		a.logger.Warn("Article element did not appear, snapshotting anyway", "url", url, "error", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, a.classified(fmt.Errorf("could not read page content: %w", err))
	}

	markdown, err := a.converter.ConvertString(html)
	if err != nil {
		return nil, a.classified(fmt.Errorf("could not convert page content: %w", err))
	}

	result := &fetcher.Result{
		Content:   markdown,
		MediaRefs: a.collectMediaRefs(page),
	}

	a.logger.Info("Fetched page content", "url", url, "content_length", len(result.Content), "media_refs", len(result.MediaRefs))
	return result, nil
}

// collectMediaRefs picks up media URLs the markdown conversion loses: video
// sources and the og:video/og:image meta tags.
func (a *Adapter) collectMediaRefs(page playwright.Page) []fetcher.MediaRef {
	var refs []fetcher.MediaRef

	appendAttr := func(selector, attr, mediaType string) {
		locators, err := page.Locator(selector).All()
		if err != nil {
			return
		}
		for _, locator := range locators {
			value, err := locator.GetAttribute(attr)
			if err == nil && value != "" {
				refs = append(refs, fetcher.MediaRef{Type: mediaType, URL: value})
			}
		}
	}

	appendAttr("video", "src", "video")
	appendAttr("video source", "src", "video")
	appendAttr(`meta[property="og:video"]`, "content", "video")
	appendAttr(`meta[property="og:image"]`, "content", "image")
	appendAttr("article img", "src", "image")

	return refs
}

// newScrapingPage creates a new page for scraping data
func (a *Adapter) newScrapingPage(ctx context.Context, url string) (playwright.Page, func(), error) {
	brContext, err := a.playwright.Browser().NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create browser context: %w", err)
	}

	cleanup := func() {
		brContext.Close()
		debug.FreeOSMemory()
	}

	if err := setupRequestInterception(brContext); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to set up request interception: %w", err)
	}

	page, err := brContext.NewPage()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not create new page: %w", err)
	}

	gotoOperation := func() error {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			Timeout: playwright.Float(float64(a.config.Scraper.FetchTimeout.Milliseconds())),
		})
		return err
	}

	err = retry.Do(ctx, a.logger, "PageGoto", gotoOperation, retry.DefaultConfig())
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not goto page '%s' after retries: %w", url, err)
	}

	return page, cleanup, nil
}

// setupRequestInterception blocks subresources that do not affect the DOM
// snapshot. Image and media requests stay enabled so src attributes resolve.
func setupRequestInterception(ctx playwright.BrowserContext) error {
	return ctx.Route("**/*", func(route playwright.Route) {
		resourceType := route.Request().ResourceType()
		if resourceType == "stylesheet" || resourceType == "font" {
			route.Abort()
		} else {
			route.Continue()
		}
	})
}

// classified wraps any adapter failure into a classified fetch error.
func (a *Adapter) classified(err error) *fetcher.Error {
	return &fetcher.Error{
		Kind:    a.classify(err.Error()),
		Message: err.Error(),
	}
}
