package sink

import "newlook-scraper-worker/internal/model"

// Sink receives batches of scraped listings, one batch per page.
type Sink interface {
	SendBatch(listings []model.Listing) error
	Close() error
}
