package scrapers

import (
	"runtime"
	"time"
)

// NewLookScraperConfig holds New Look scraper configuration.
type NewLookScraperConfig struct {
	BaseURL      string        // e.g. "https://www.newlook.com/uk"
	CategoryPath string        // e.g. "/womens/footwear/c/uk-womens-footwear"
	Currency     string        // ISO currency code sent to the API
	Language     string        // language code sent to the API
	Sort         string        // sort order, "relevance" by default
	MaxPages     int           // 0 means every page the API reports
	Timeout      time.Duration // per-request timeout
	WorkerCount  int           // image download workers, default = runtime.NumCPU()
	ImageDir     string        // directory for downloaded images
	EnableImages bool          // download images and rewrite the image field
	Retry        RetryConfig   // retry config
}

// RetryConfig holds options for retry logic.
type RetryConfig struct {
	Attempts       int           // number of retry attempts
	InitialBackoff time.Duration // initial backoff duration between retries
}

// DefaultNewLookConfig returns a NewLookScraperConfig with sensible defaults.
func DefaultNewLookConfig() NewLookScraperConfig {
	return NewLookScraperConfig{
		BaseURL:      "https://www.newlook.com/uk",
		CategoryPath: "/womens/footwear/c/uk-womens-footwear",
		Currency:     "GBP",
		Language:     "en",
		Sort:         "relevance",
		MaxPages:     0,
		Timeout:      5 * time.Second,
		WorkerCount:  runtime.NumCPU(),
		ImageDir:     "img",
		EnableImages: true,
		Retry: RetryConfig{
			Attempts:       3,
			InitialBackoff: 1 * time.Second,
		},
	}
}

// WithBaseURL sets the site base URL and returns the config for chaining.
func (c NewLookScraperConfig) WithBaseURL(baseURL string) NewLookScraperConfig {
	c.BaseURL = baseURL
	return c
}

// WithCategoryPath sets the category path and returns the config for chaining.
func (c NewLookScraperConfig) WithCategoryPath(path string) NewLookScraperConfig {
	c.CategoryPath = path
	return c
}

// WithLocale sets the currency and language sent to the API.
func (c NewLookScraperConfig) WithLocale(currency, language string) NewLookScraperConfig {
	c.Currency = currency
	c.Language = language
	return c
}

// WithMaxPages sets the maximum number of pages to scrape.
func (c NewLookScraperConfig) WithMaxPages(pages int) NewLookScraperConfig {
	c.MaxPages = pages
	return c
}

// WithTimeout sets the per-request timeout.
func (c NewLookScraperConfig) WithTimeout(timeout time.Duration) NewLookScraperConfig {
	c.Timeout = timeout
	return c
}

// WithWorkerCount sets the number of concurrent image download workers.
func (c NewLookScraperConfig) WithWorkerCount(workers int) NewLookScraperConfig {
	c.WorkerCount = workers
	return c
}

// WithImages enables or disables image downloads into dir.
func (c NewLookScraperConfig) WithImages(enabled bool, dir string) NewLookScraperConfig {
	c.EnableImages = enabled
	if dir != "" {
		c.ImageDir = dir
	}
	return c
}

// WithRetry sets the retry configuration.
func (c NewLookScraperConfig) WithRetry(attempts int, initialBackoff time.Duration) NewLookScraperConfig {
	c.Retry = RetryConfig{
		Attempts:       attempts,
		InitialBackoff: initialBackoff,
	}
	return c
}
