// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Static decision inputs.
	CampusesPath       string `env:"CAMPUSES_PATH" envDefault:"data/campuses.json"`
	ExclusionRulesPath string `env:"EXCLUSION_RULES_PATH" envDefault:"data/exclusion_rules.yaml"`
	SelectionPolicy    string `env:"SELECTION_POLICY" envDefault:"closest"`

	// OSRM road routing.
	OSRMEnabled    bool          `env:"OSRM_ENABLED" envDefault:"true"`
	OSRMBaseURL    string        `env:"OSRM_BASE_URL" envDefault:"https://router.project-osrm.org"`
	OSRMTimeout    time.Duration `env:"OSRM_TIMEOUT" envDefault:"10s"`
	RouteCacheSize int           `env:"ROUTE_CACHE_SIZE" envDefault:"1000"`

	// Metro traffic adjustment for fallback ground estimates.
	TrafficModelEnabled bool `env:"TRAFFIC_MODEL_ENABLED" envDefault:"true"`

	// Bed census Kafka feed.
	CensusFeedEnabled bool     `env:"CENSUS_FEED_ENABLED" envDefault:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaCensusTopic  string   `env:"KAFKA_CENSUS_TOPIC" envDefault:"bed-census-updates"`
	KafkaGroupID      string   `env:"KAFKA_GROUP_ID" envDefault:"transfer-center"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.CampusesPath == "" {
		return nil, errors.New("CAMPUSES_PATH is required")
	}
	if cfg.ExclusionRulesPath == "" {
		return nil, errors.New("EXCLUSION_RULES_PATH is required")
	}
	if cfg.SelectionPolicy != "closest" && cfg.SelectionPolicy != "weighted" {
		return nil, fmt.Errorf("unknown SELECTION_POLICY %q (want closest or weighted)", cfg.SelectionPolicy)
	}
	if cfg.OSRMEnabled {
		if cfg.OSRMBaseURL == "" {
			return nil, errors.New("OSRM_ENABLED is true but OSRM_BASE_URL is not set")
		}
		if cfg.OSRMTimeout <= 0 {
			return nil, errors.New("invalid OSRM_TIMEOUT")
		}
		if cfg.RouteCacheSize <= 0 {
			return nil, errors.New("ROUTE_CACHE_SIZE must be positive")
		}
	}
	if cfg.CensusFeedEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("CENSUS_FEED_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaCensusTopic == "" {
			return nil, errors.New("CENSUS_FEED_ENABLED is true but KAFKA_CENSUS_TOPIC is not set")
		}
	}

	return &cfg, nil
}
