package scrapers

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"time"

	"newlook-scraper-worker/internal/logger"
	"newlook-scraper-worker/internal/model"
	"newlook-scraper-worker/internal/observability"
	"newlook-scraper-worker/internal/sink"

	"github.com/andybalholm/brotli"
)

type Scraper interface {
	Scrape() (int64, error)
}

// NewLookScraper implements the Scraper interface against the New Look
// category data endpoint.
type NewLookScraper struct {
	cfg    NewLookScraperConfig
	sinks  []sink.Sink
	client *http.Client
	logger logger.Logger
}

// categoryResponse mirrors the envelope returned by the data endpoint.
type categoryResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Pagination struct {
			NumberOfPages int `json:"numberOfPages"`
		} `json:"pagination"`
		Results []listingEntry `json:"results"`
	} `json:"data"`
}

type listingEntry struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Price       struct {
		FormattedValue string `json:"formattedValue"`
	} `json:"price"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// NewNewLookScraper constructs a new NewLookScraper.
func NewNewLookScraper(cfg NewLookScraperConfig, sinks []sink.Sink, logger logger.Logger) *NewLookScraper {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	return &NewLookScraper{
		cfg:   cfg,
		sinks: sinks,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Scrape performs the main scraping process: fetch page 0 to learn the page
// count, then walk the pages in order so sink output keeps page order.
func (s *NewLookScraper) Scrape() (int64, error) {
	s.logger.Infof("Starting New Look scraping for category %s...", s.cfg.CategoryPath)

	rootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if s.cfg.EnableImages {
		if err := s.ensureImageDir(); err != nil {
			return 0, err
		}
	}

	first, err := s.fetchCategoryPage(rootCtx, 0)
	if err != nil {
		s.logger.Errorf("Failed to fetch first page: %v", err)
		return 0, err
	}

	pageCount := first.Data.Pagination.NumberOfPages
	if pageCount <= 0 {
		return 0, fmt.Errorf("no page count in API response")
	}
	if s.cfg.MaxPages > 0 && pageCount > s.cfg.MaxPages {
		pageCount = s.cfg.MaxPages
	}
	s.logger.Infof("Category has %d page(s)", pageCount)

	var totalCount int64

	for page := 0; page < pageCount; page++ {
		resp := first
		if page > 0 {
			s.logger.Infof("Scraping page %d of %d", page+1, pageCount)
			resp, err = s.fetchCategoryPage(rootCtx, page)
			if err != nil {
				s.logger.Errorf("Failed to fetch page %d: %v", page, err)
				return totalCount, err
			}
		}

		listings := s.extractListings(resp)
		if len(listings) == 0 {
			s.logger.Infof("No listings on page %d, stopping further processing", page)
			break
		}

		if s.cfg.EnableImages {
			s.saveImages(rootCtx, listings)
		}

		for _, snk := range s.sinks {
			if err := snk.SendBatch(listings); err != nil {
				s.logger.Errorf("Failed to send batch for page %d: %v", page, err)
				return totalCount, err
			}
		}

		totalCount += int64(len(listings))
		observability.ListingsScraped.Add(float64(len(listings)))

		s.logger.Infof("Successfully processed page %d, listings: %d", page, len(listings))
	}

	s.logger.Infof("New Look scraping finished. Total listings: %d", totalCount)
	return totalCount, nil
}

// buildURL constructs the URL to fetch a page of the category data endpoint.
func (s *NewLookScraper) buildURL(page int) string {
	params := url.Values{}
	params.Set("currency", s.cfg.Currency)
	params.Set("language", s.cfg.Language)
	params.Set("q", ":"+s.cfg.Sort)
	params.Set("sort", s.cfg.Sort)
	params.Set("page", strconv.Itoa(page))

	resultURL := fmt.Sprintf("%s%s/data-48.json?%s",
		s.cfg.BaseURL,
		s.cfg.CategoryPath,
		params.Encode(),
	)
	s.logger.Debugf("URL built: %s", resultURL)
	return resultURL
}

// fetchCategoryPage fetches one page, retrying on transport errors, and
// decodes the response envelope.
func (s *NewLookScraper) fetchCategoryPage(ctx context.Context, page int) (*categoryResponse, error) {
	urlStr := s.buildURL(page)

	var body []byte
	retryErr := Retry(ctx, s.cfg.Retry, func() error {
		b, err := s.fetch(ctx, urlStr)
		if err != nil {
			s.logger.Warnf("Retry warning: fetch failed for page %d: %v", page, err)
			return err
		}
		body = b
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("all retries failed for page %d: %w", page, retryErr)
	}

	var resp categoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Debugf("Failed to parse JSON, content: %s", string(body))
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	if !resp.Success {
		return nil, errors.New("API request via JSON was not successful")
	}

	observability.PagesFetched.Inc()
	return &resp, nil
}

// fetch performs an HTTP GET request with the headers and decompression the
// endpoint expects.
func (s *NewLookScraper) fetch(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, err
	}

	// Browser-like headers keep the AJAX endpoint from rejecting us.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 6.1; rv:88.0) Gecko/20100101 Firefox/88.0")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.7")
	req.Header.Set("Connection", "keep-alive")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			s.logger.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status: %d", resp.StatusCode)
	}

	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func(gzReader *gzip.Reader) {
			err := gzReader.Close()
			if err != nil {
				s.logger.Errorf("Failed to close gzip reader: %v", err)
			}
		}(gzReader)
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		flateReader := flate.NewReader(resp.Body)
		defer func(flateReader io.ReadCloser) {
			err := flateReader.Close()
			if err != nil {
				s.logger.Errorf("Failed to close flate reader: %v", err)
			}
		}(flateReader)
		reader = flateReader
	default:
		reader = resp.Body
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	s.logger.Debugf("Response body length: %d bytes", len(data))

	return data, nil
}

// extractListings converts the page results into flat Listing records.
// A malformed entry is logged and skipped, the rest of the page survives.
func (s *NewLookScraper) extractListings(resp *categoryResponse) []model.Listing {
	listings := make([]model.Listing, 0, len(resp.Data.Results))

	for _, entry := range resp.Data.Results {
		if entry.Name == "" || entry.URL == "" {
			s.logger.Warnf("Skipping malformed entry: %+v", entry)
			continue
		}

		listing := model.Listing{
			Name:        entry.Name,
			URL:         s.cfg.BaseURL + entry.URL,
			Description: plainText(entry.Description),
			Price:       entry.Price.FormattedValue,
			Source:      "newlook",
			Category:    s.cfg.CategoryPath,
			Timestamp:   time.Now(),
		}
		if len(entry.Images) > 0 {
			listing.Image = "https:" + entry.Images[0].URL
		}
		listings = append(listings, listing)
	}

	s.logger.Infof("Parsed %d listings from JSON", len(listings))
	return listings
}
