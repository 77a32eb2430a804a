package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ErrMissingEndpoint is returned when no InfluxDB URL is configured at
// all. The process cannot run without one and must not start polling.
var ErrMissingEndpoint = errors.New("influxdb_url is not configured")

type SolarUsageConfig struct {
	InfluxDBURL   string `envconfig:"INFLUXDB_URL"`
	InfluxDBToken string `envconfig:"INFLUXDB_TOKEN"`
	Database      string `split_words:"true" default:"sensors"`

	PollInterval   time.Duration `split_words:"true" default:"5s"`
	HTTPTimeout    time.Duration `split_words:"true" default:"10s"`
	StaleThreshold time.Duration `split_words:"true" default:"30s"`

	ListenAddress string `split_words:"true" default:":7004"`
	SnapshotPath  string `split_words:"true"`
}

// settingsFile mirrors the host's persisted settings store: a single
// solar_usage section holding the two provisioned keys.
type settingsFile struct {
	SolarUsage struct {
		InfluxDBURL   string `yaml:"influxdb_url"`
		InfluxDBToken string `yaml:"influxdb_token"`
	} `yaml:"solar_usage"`
}

// Load builds the configuration from the SOLAR_USAGE_* environment and,
// when path is non-empty, the host settings file. Environment values win
// over file values. Configuration is read once; callers treat the result
// as immutable.
func Load(path string) (*SolarUsageConfig, error) {
	var conf SolarUsageConfig
	if err := envconfig.Process("SOLAR_USAGE", &conf); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
		var file settingsFile
		if err := yaml.UnmarshalStrict(data, &file); err != nil {
			return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
		if conf.InfluxDBURL == "" {
			conf.InfluxDBURL = file.SolarUsage.InfluxDBURL
		}
		if conf.InfluxDBToken == "" {
			conf.InfluxDBToken = file.SolarUsage.InfluxDBToken
		}
	}

	if conf.InfluxDBURL == "" {
		return nil, ErrMissingEndpoint
	}
	return &conf, nil
}
