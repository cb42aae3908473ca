package scrapers

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"newlook-scraper-worker/internal/model"
	"newlook-scraper-worker/internal/observability"
)

func (s *NewLookScraper) ensureImageDir() error {
	if err := os.MkdirAll(s.cfg.ImageDir, 0750); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	return nil
}

// saveImages downloads the image of every listing in the batch on a worker
// pool and rewrites the image field to the local file URL. A failed download
// keeps the remote URL in place; it never fails the page.
func (s *NewLookScraper) saveImages(ctx context.Context, listings []model.Listing) {
	tasks := make(chan int, len(listings))
	for i := range listings {
		if listings[i].Image != "" {
			tasks <- i
		}
	}
	close(tasks)

	// Workers receive disjoint indexes, so writes to the slice do not race.
	err := StartWorkerPool(ctx, tasks, s.cfg.WorkerCount, func(ctx context.Context, i int) error {
		localPath, err := s.saveImage(ctx, listings[i].Image)
		if err != nil {
			s.logger.Warnf("Failed to save image %s: %v", listings[i].Image, err)
			return nil
		}
		listings[i].Image = "file://" + localPath
		observability.ImagesSaved.Inc()
		return nil
	})
	if err != nil {
		s.logger.Errorf("Image worker pool error: %v", err)
	}
}

// saveImage fetches one image and writes it under the image directory,
// returning the absolute path of the written file.
func (s *NewLookScraper) saveImage(ctx context.Context, imageURL string) (string, error) {
	var data []byte
	retryErr := Retry(ctx, s.cfg.Retry, func() error {
		b, err := s.fetch(ctx, imageURL)
		if err != nil {
			return err
		}
		data = b
		return nil
	})
	if retryErr != nil {
		return "", retryErr
	}

	filename := filepath.Join(s.cfg.ImageDir, path.Base(imageURL))
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, nil
	}
	return absPath, nil
}
