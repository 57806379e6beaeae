package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Dataset locations.
	DataDir               string
	DisastersFile         string
	PopulationDensityFile string
	ScoresFile            string
	TimeSeriesFile        string
	BeneficiariesFile     string
	HazardTypeCountsFile  string
	BoundaryFile          string

	// Engine behavior.
	CountryRegion        string
	SeriesFilterCategory bool
	ViewCacheSize        int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	viewCacheSize, err := parsePositiveInt("VIEW_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	seriesFilter, err := parseBool("SERIES_FILTER_CATEGORY", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "dashboard-selections"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "dashboard-views"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "hazard-dashboard"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		DataDir:               sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		DisastersFile:         sharedcfg.EnvOrDefault("DISASTERS_FILE", "data101_disasters.csv"),
		PopulationDensityFile: sharedcfg.EnvOrDefault("POPULATION_DENSITY_FILE", "data101_pop_density.csv"),
		ScoresFile:            sharedcfg.EnvOrDefault("SCORES_FILE", "data101_adaptability_score.csv"),
		TimeSeriesFile:        sharedcfg.EnvOrDefault("TIME_SERIES_FILE", "data101_timeseries.csv"),
		BeneficiariesFile:     sharedcfg.EnvOrDefault("BENEFICIARIES_FILE", "data101_beneficiaries_df.csv"),
		HazardTypeCountsFile:  sharedcfg.EnvOrDefault("HAZARD_TYPE_COUNTS_FILE", "data101_disaster_by_haztype.csv"),
		BoundaryFile:          sharedcfg.EnvOrDefault("BOUNDARY_FILE", "DATA101_MAP_DATA.geojson"),

		CountryRegion:        sharedcfg.EnvOrDefault("COUNTRY_REGION", "PH"),
		SeriesFilterCategory: seriesFilter,
		ViewCacheSize:        viewCacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaSourceTopic == cfg.KafkaSinkTopic {
		return nil, errors.New("KAFKA_SOURCE_TOPIC and KAFKA_SINK_TOPIC must differ")
	}

	return cfg, nil
}

func parsePositiveInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return n, nil
}

func parseBool(name string, def bool) (bool, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, s)
	}
	return b, nil
}
