package config

import (
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel     string `env:"LOG_LEVEL"`
	LogFile      string `env:"LOG_FILE"`
	Timeout      int    `env:"TIMEOUT"`
	BaseURL      string `env:"BASE_URL"`
	CategoryPath string `env:"CATEGORY_PATH"`
	Currency     string `env:"CURRENCY"`
	Language     string `env:"LANGUAGE"`
	Sort         string `env:"SORT"`
	MaxPages     int    `env:"MAX_PAGES"`
	OutputFile   string `env:"OUTPUT_FILE"`
	ImageDir     string `env:"IMAGE_DIR"`
	EnableImages bool   `env:"ENABLE_IMAGES"`
	EnableKafka  bool   `env:"ENABLE_KAFKA"`
	KafkaHost    string `env:"KAFKA_HOST"`
	KafkaTopic   string `env:"KAFKA_TOPIC"`
	MetricsPort  string `env:"METRICS_PORT"`
	WorkerCount  int    `env:"WORKER_COUNT"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	config := &Config{
		LogLevel:     getEnvAsString("LOG_LEVEL", "info"),
		LogFile:      getEnvAsString("LOG_FILE", ""),
		Timeout:      getEnvAsInt("TIMEOUT", 5),
		BaseURL:      getEnvAsString("BASE_URL", "https://www.newlook.com/uk"),
		CategoryPath: getEnvAsString("CATEGORY_PATH", "/womens/footwear/c/uk-womens-footwear"),
		Currency:     getEnvAsString("CURRENCY", "GBP"),
		Language:     getEnvAsString("LANGUAGE", "en"),
		Sort:         getEnvAsString("SORT", "relevance"),
		MaxPages:     getEnvAsInt("MAX_PAGES", 0),
		OutputFile:   getEnvAsString("OUTPUT_FILE", "new_look.csv"),
		ImageDir:     getEnvAsString("IMAGE_DIR", "img"),
		EnableImages: getEnvAsBool("ENABLE_IMAGES", true),
		EnableKafka:  getEnvAsBool("ENABLE_KAFKA", false),
		KafkaHost:    getEnvAsString("KAFKA_HOST", "localhost:29092"),
		KafkaTopic:   getEnvAsString("KAFKA_TOPIC", "listings.raw"),
		MetricsPort:  getEnvAsString("METRICS_PORT", "9090"),
		WorkerCount:  getEnvAsInt("WORKER_COUNT", runtime.NumCPU()),
	}
	log.Printf("Loaded configuration: %+v\n", config)

	return config, nil
}

func getEnvAsString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true"
}
