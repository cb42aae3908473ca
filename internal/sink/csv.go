package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"newlook-scraper-worker/internal/logger"
	"newlook-scraper-worker/internal/model"

	"github.com/gocarina/gocsv"
)

// CSVSink writes listings to a semicolon-separated CSV file. The header row
// is written once with the first batch, later batches are appended.
type CSVSink struct {
	file        *os.File
	logger      logger.Logger
	wroteHeader bool
}

// NewCSVSink creates (or truncates) the output file at path.
func NewCSVSink(path string, logger logger.Logger) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Infof("Writing scraped listings to %s", path)

	return &CSVSink{
		file:   file,
		logger: logger,
	}, nil
}

// SendBatch appends a batch of listings to the file.
func (s *CSVSink) SendBatch(listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	w := csv.NewWriter(s.file)
	w.Comma = ';'
	writer := gocsv.NewSafeCSVWriter(w)

	var err error
	if s.wroteHeader {
		err = gocsv.MarshalCSVWithoutHeaders(&listings, writer)
	} else {
		err = gocsv.MarshalCSV(&listings, writer)
	}
	if err != nil {
		s.logger.Errorf("Failed to write CSV batch: %v", err)
		return fmt.Errorf("failed to write CSV batch: %w", err)
	}
	s.wroteHeader = true

	s.logger.Debugf("Wrote %d listings to CSV", len(listings))
	return nil
}

// Close flushes and closes the output file.
func (s *CSVSink) Close() error {
	return s.file.Close()
}
