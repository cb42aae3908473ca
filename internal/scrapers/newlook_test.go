package scrapers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newlook-scraper-worker/internal/logger"
	"newlook-scraper-worker/internal/model"
	"newlook-scraper-worker/internal/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink collects batches in memory for assertions.
type captureSink struct {
	batches [][]model.Listing
}

func (c *captureSink) SendBatch(listings []model.Listing) error {
	batch := make([]model.Listing, len(listings))
	copy(batch, listings)
	c.batches = append(c.batches, batch)
	return nil
}

func (c *captureSink) Close() error { return nil }

func testConfig() NewLookScraperConfig {
	return DefaultNewLookConfig().
		WithTimeout(2*time.Second).
		WithRetry(1, time.Millisecond).
		WithImages(false, "")
}

func pageJSON(numberOfPages int, names ...string) string {
	type entry struct {
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

	results := make([]entry, 0, len(names))
	for i, name := range names {
		e := entry{
			Name:        name,
			URL:         fmt.Sprintf("/p/product-%d", i),
			Description: "<p>Soft  faux\nleather</p>",
		}
		e.Price.FormattedValue = "£19.99"
		e.Images = []struct {
			URL string `json:"url"`
		}{{URL: fmt.Sprintf("//media.newlook.com/i/%d.jpg", i)}}
		results = append(results, e)
	}

	body := map[string]any{
		"success": true,
		"data": map[string]any{
			"pagination": map[string]any{"numberOfPages": numberOfPages},
			"results":    results,
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestExtractListings(t *testing.T) {
	raw := pageJSON(1, "Black Boots", "Tan Sandals", "White Trainers")

	var resp categoryResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	cfg := testConfig()
	s := NewNewLookScraper(cfg, nil, logger.NewMockLogger())

	listings := s.extractListings(&resp)

	require.Len(t, listings, 3)
	assert.Equal(t, "Black Boots", listings[0].Name)
	assert.Equal(t, cfg.BaseURL+"/p/product-0", listings[0].URL)
	assert.Equal(t, "Soft faux leather", listings[0].Description)
	assert.Equal(t, "£19.99", listings[0].Price)
	assert.Equal(t, "https://media.newlook.com/i/0.jpg", listings[0].Image)
	assert.Equal(t, "newlook", listings[0].Source)
	assert.Equal(t, cfg.CategoryPath, listings[0].Category)
	assert.False(t, listings[0].Timestamp.IsZero())
}

func TestExtractListings_SkipsMalformedEntry(t *testing.T) {
	resp := &categoryResponse{Success: true}
	resp.Data.Results = []listingEntry{
		{Name: "Valid Boots", URL: "/p/valid"},
		{Name: "", URL: "/p/missing-name"},
		{Name: "No URL"},
	}

	mockLogger := logger.NewMockLogger()
	s := NewNewLookScraper(testConfig(), nil, mockLogger)

	listings := s.extractListings(resp)

	require.Len(t, listings, 1)
	assert.Equal(t, "Valid Boots", listings[0].Name)
	assert.Len(t, mockLogger.WarnMessages, 2)
}

func TestBuildURL(t *testing.T) {
	cfg := testConfig().
		WithBaseURL("https://www.newlook.com/uk").
		WithCategoryPath("/womens/clothing/dresses/c/uk-womens-clothing-dresses")
	s := NewNewLookScraper(cfg, nil, logger.NewMockLogger())

	urlStr := s.buildURL(3)

	assert.Contains(t, urlStr, "https://www.newlook.com/uk/womens/clothing/dresses/c/uk-womens-clothing-dresses/data-48.json?")
	assert.Contains(t, urlStr, "currency=GBP")
	assert.Contains(t, urlStr, "language=en")
	assert.Contains(t, urlStr, "q=%3Arelevance")
	assert.Contains(t, urlStr, "sort=relevance")
	assert.Contains(t, urlStr, "page=3")
}

func TestScrape_Pagination(t *testing.T) {
	pages := map[string]string{
		"0": pageJSON(2, "Boots A", "Boots B"),
		"1": pageJSON(2, "Sandals C"),
	}

	var requestedPaths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPaths = append(requestedPaths, r.URL.Path)
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	capture := &captureSink{}
	cfg := testConfig().WithBaseURL(server.URL)
	s := NewNewLookScraper(cfg, []sink.Sink{capture}, logger.NewMockLogger())

	count, err := s.Scrape()

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, capture.batches, 2)
	assert.Equal(t, "Boots A", capture.batches[0][0].Name)
	assert.Equal(t, "Boots B", capture.batches[0][1].Name)
	assert.Equal(t, "Sandals C", capture.batches[1][0].Name)
	for _, p := range requestedPaths {
		assert.Equal(t, cfg.CategoryPath+"/data-48.json", p)
	}
}

func TestScrape_StopsOnEmptyPage(t *testing.T) {
	pages := map[string]string{
		"0": pageJSON(3, "Boots A"),
		"1": pageJSON(3),
		"2": pageJSON(3, "Should Never Be Reached"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))
	defer server.Close()

	capture := &captureSink{}
	cfg := testConfig().WithBaseURL(server.URL)
	s := NewNewLookScraper(cfg, []sink.Sink{capture}, logger.NewMockLogger())

	count, err := s.Scrape()

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, capture.batches, 1)
}

func TestScrape_MaxPagesCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageJSON(10, "Boots "+r.URL.Query().Get("page")))
	}))
	defer server.Close()

	capture := &captureSink{}
	cfg := testConfig().WithBaseURL(server.URL).WithMaxPages(2)
	s := NewNewLookScraper(cfg, []sink.Sink{capture}, logger.NewMockLogger())

	count, err := s.Scrape()

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, capture.batches, 2)
}

func TestScrape_UnsuccessfulEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer server.Close()

	cfg := testConfig().WithBaseURL(server.URL)
	s := NewNewLookScraper(cfg, nil, logger.NewMockLogger())

	_, err := s.Scrape()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not successful")
}

func TestScrape_ServerErrorExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig().WithBaseURL(server.URL).WithRetry(3, time.Millisecond)
	s := NewNewLookScraper(cfg, nil, logger.NewMockLogger())

	_, err := s.Scrape()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200 status")
	assert.Equal(t, 3, calls)
}

func TestScrape_RecoversAfterTransientFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, pageJSON(1, "Boots A"))
	}))
	defer server.Close()

	capture := &captureSink{}
	cfg := testConfig().WithBaseURL(server.URL).WithRetry(3, time.Millisecond)
	s := NewNewLookScraper(cfg, []sink.Sink{capture}, logger.NewMockLogger())

	count, err := s.Scrape()

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2, calls)
}
