package fx

import (
	"github.com/orgball2608/insta-scraper-api/internal/repositories/scrapedpost"
	"go.uber.org/fx"
)

var Module = fx.Options(
	scrapedpost.Module,
)
