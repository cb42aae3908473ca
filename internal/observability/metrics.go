package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newlook_pages_fetched_total",
			Help: "Total category pages fetched from the API",
		},
	)
	ListingsScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newlook_listings_scraped_total",
			Help: "Total product listings extracted",
		},
	)
	ImagesSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newlook_images_saved_total",
			Help: "Total product images saved to disk",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(PagesFetched, ListingsScraped, ImagesSaved)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("Metrics endpoint error: %v", err)
		}
	}()
}
