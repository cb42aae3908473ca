package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newlook-scraper-worker/internal/config"
	"newlook-scraper-worker/internal/kafka"
	"newlook-scraper-worker/internal/logger"
	"newlook-scraper-worker/internal/observability"
	"newlook-scraper-worker/internal/scrapers"
	"newlook-scraper-worker/internal/sink"
)

func main() {

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize custom logger
	clog, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer func(clog logger.Logger) {
		err := clog.Sync()
		if err != nil {
			log.Fatal("failed to sync custom logger:", err)
		}
	}(clog)

	// Command-line flags
	category := flag.String("category", cfg.CategoryPath, "Category path to scrape, e.g. /womens/footwear/c/uk-womens-footwear")
	pages := flag.Int("pages", cfg.MaxPages, "Maximum pages to scrape, 0 for all")
	out := flag.String("out", cfg.OutputFile, "Path of the output CSV file")
	flag.Parse()

	observability.Start(cfg.MetricsPort)

	// Set up sinks: CSV always, Kafka when enabled
	csvSink, err := sink.NewCSVSink(*out, clog)
	if err != nil {
		clog.Errorf("Failed to create CSV sink: %v", err)
		return
	}
	sinks := []sink.Sink{csvSink}

	if cfg.EnableKafka {
		producer, err := kafka.NewProducer([]string{cfg.KafkaHost}, cfg.KafkaTopic, clog)
		if err != nil {
			clog.Errorf("Failed to initialize Kafka producer: %v", err)
			return
		}
		sinks = append(sinks, producer)
	}
	defer func() {
		for _, snk := range sinks {
			if err := snk.Close(); err != nil {
				clog.Errorf("Failed to close sink: %v", err)
			}
		}
	}()

	// Handle shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		clog.Infof("Shutting down gracefully...")

		// Force shutdown after timeout
		time.Sleep(10 * time.Second)
		clog.Infof("Forced shutdown after timeout")
		os.Exit(1)
	}()

	scraperCfg := scrapers.DefaultNewLookConfig().
		WithBaseURL(cfg.BaseURL).
		WithCategoryPath(*category).
		WithLocale(cfg.Currency, cfg.Language).
		WithMaxPages(*pages).
		WithTimeout(time.Duration(cfg.Timeout)*time.Second).
		WithWorkerCount(cfg.WorkerCount).
		WithImages(cfg.EnableImages, cfg.ImageDir)

	scraper := scrapers.NewNewLookScraper(scraperCfg, sinks, clog)

	count, err := scraper.Scrape()
	if err != nil {
		clog.Errorf("Error scraping listings: %v", err)
		clog.Errorf("Fatal error. Shutting down.")
		return
	}

	clog.Infof("Scraped %d listings", count)
	clog.Infof("Scraping process done.")
}
