package model

import (
	"time"
)

// Listing is a single scraped product record. The csv tags define the column
// order and titles of the output file.
type Listing struct {
	Name        string    `json:"name" csv:"Item name"`
	URL         string    `json:"url" csv:"URL"`
	Description string    `json:"description" csv:"Description"`
	Price       string    `json:"price" csv:"Price"`
	Image       string    `json:"image" csv:"Image"`
	Source      string    `json:"source" csv:"-"`
	Category    string    `json:"category" csv:"-"`
	Timestamp   time.Time `json:"timestamp" csv:"-"`
}
