package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Scraper struct {
		MaxFetchAttempts int           `env:"SCRAPER_MAX_FETCH_ATTEMPTS" env-default:"3"`
		RetryDelay       time.Duration `env:"SCRAPER_RETRY_DELAY" env-default:"2s"`
		MinContentLength int           `env:"SCRAPER_MIN_CONTENT_LENGTH" env-default:"100"`
		FetchTimeout     time.Duration `env:"SCRAPER_FETCH_TIMEOUT" env-default:"60s"`
		ScrapeTimeout    time.Duration `env:"SCRAPER_SCRAPE_TIMEOUT" env-default:"120s"`
		CacheTTL         time.Duration `env:"SCRAPER_CACHE_TTL" env-default:"6h"`
		CacheRetention   time.Duration `env:"SCRAPER_CACHE_RETENTION" env-default:"168h"`
	}
	OpenAI struct {
		APIKey          string  `env:"OPENAI_API_KEY"`
		Model           string  `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
		Temperature     float64 `env:"OPENAI_TEMPERATURE" env-default:"0.1"`
		MaxContentChars int     `env:"OPENAI_MAX_CONTENT_CHARS" env-default:"4000"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"10"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1m"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"3"`
	}
}

// GetDSN returns the postgres connection string in key/value form.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
