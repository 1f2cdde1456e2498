// Package config loads and validates the pipeline's runtime configuration:
// ring buffer sizing, trading engine parameters, and the ambient HTTP/
// logging/throttle surfaces around the hot path.
package config

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// schemaConstraint is the range of Config.SchemaVersion this binary
// understands. Bumping the major version is a breaking change to the
// config file's shape.
var schemaConstraint = semver.MustParse("1.0.0")

// Config is the full runtime configuration for a nanofill run.
type Config struct {
	SchemaVersion string `mapstructure:"schema_version" validate:"required"`

	// RingBufferCapacity is the SPSC ring buffer's backing size. Must be a
	// power of two; effective capacity is RingBufferCapacity-1.
	RingBufferCapacity int `mapstructure:"ring_buffer_capacity" validate:"required,min=2"`

	// PriceSpread is the constant the trading engine holds its buy/sell
	// targets at from the running average share price.
	PriceSpread uint32 `mapstructure:"price_spread"`

	Logging struct {
		Level       string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"logging"`

	HTTP struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
	} `mapstructure:"http"`

	Snapshot struct {
		TTLSeconds     int `mapstructure:"ttl_seconds" validate:"min=1"`
		IntervalSecond int `mapstructure:"interval_seconds" validate:"min=1"`
	} `mapstructure:"snapshot"`

	ReplayThrottle struct {
		// RowsPerSecond of 0 disables throttling: the producer runs at
		// full speed, matching the hot-path contract exactly.
		RowsPerSecond float64 `mapstructure:"rows_per_second"`
		Burst         int     `mapstructure:"burst"`
	} `mapstructure:"replay_throttle"`

	LatencyDump struct {
		// Path is empty to disable writing a compressed raw latency dump.
		Path string `mapstructure:"path"`
	} `mapstructure:"latency_dump"`

	Metrics struct {
		// PushgatewayURL is empty to disable the optional remote metrics
		// push wrapped in a circuit breaker.
		PushgatewayURL string `mapstructure:"pushgateway_url"`
	} `mapstructure:"metrics"`
}

var validate = validator.New()

var (
	loaded *Config
	once   sync.Once
	loadErr error
)

// Load reads configuration from configPath (a directory to search for
// config.yaml) plus NANOFILL_-prefixed environment variables, applies
// defaults, validates the result, and checks SchemaVersion against this
// binary's supported range. Subsequent calls return the first result; use
// LoadFresh to bypass this process-wide memoization (tests, reloads).
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		loaded, loadErr = LoadFresh(configPath)
	})
	return loaded, loadErr
}

// LoadFresh performs the same steps as Load without memoizing the result.
func LoadFresh(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nanofill")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("NANOFILL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	if cfg.RingBufferCapacity&(cfg.RingBufferCapacity-1) != 0 {
		return nil, fmt.Errorf("config: ring_buffer_capacity %d is not a power of two", cfg.RingBufferCapacity)
	}

	version, err := semver.NewVersion(cfg.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("config: schema_version %q: %w", cfg.SchemaVersion, err)
	}
	if version.Major() != schemaConstraint.Major() {
		return nil, fmt.Errorf("config: schema_version %s is incompatible with supported major version %d", cfg.SchemaVersion, schemaConstraint.Major())
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema_version", "1.0.0")
	v.SetDefault("ring_buffer_capacity", 4096)
	v.SetDefault("price_spread", 20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("http.enabled", false)
	v.SetDefault("http.address", "127.0.0.1:8080")
	v.SetDefault("snapshot.ttl_seconds", 5)
	v.SetDefault("snapshot.interval_seconds", 1)
	v.SetDefault("replay_throttle.rows_per_second", 0)
	v.SetDefault("replay_throttle.burst", 200)
	v.SetDefault("latency_dump.path", "")
	v.SetDefault("metrics.pushgateway_url", "")
}
