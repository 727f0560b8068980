package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables.
type Config struct {
	Env      string
	HTTPAddr string

	// StorageMode selects memory (default) or mongo persistence.
	StorageMode string
	MongoURI    string
	MongoDB     string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	PaymentsURL     string
	PaymentsTimeout time.Duration

	Currency              string
	CleaningFeePercent    float64
	MinCleaningFee        int64
	PerExtraGuestPerNight int64
	ServiceFeePercent     float64

	AnalyticsWindowDays int
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "roamstay"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		PaymentsURL:      getEnv("PAYMENTS_URL", "http://localhost:8100/checkout-sessions"),
		Currency:         getEnv("CURRENCY", "INR"),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	timeout, err := parseDurationEnv("PAYMENTS_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentsTimeout = timeout

	cleaning, err := parseFloatEnv("CLEANING_FEE_PERCENT", 0.10)
	if err != nil {
		return Config{}, err
	}
	cfg.CleaningFeePercent = cleaning

	minCleaning, err := parseIntEnv("MIN_CLEANING_FEE", 500)
	if err != nil {
		return Config{}, err
	}
	cfg.MinCleaningFee = minCleaning

	extraGuest, err := parseIntEnv("PER_EXTRA_GUEST_PER_NIGHT", 300)
	if err != nil {
		return Config{}, err
	}
	cfg.PerExtraGuestPerNight = extraGuest

	service, err := parseFloatEnv("SERVICE_FEE_PERCENT", 0.05)
	if err != nil {
		return Config{}, err
	}
	cfg.ServiceFeePercent = service

	window, err := parseIntEnv("ANALYTICS_WINDOW_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	cfg.AnalyticsWindowDays = int(window)

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return f, nil
}

func parseIntEnv(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
