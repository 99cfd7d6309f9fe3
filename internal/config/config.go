package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "UNHOSTER_CONFIG"
	concurrencyEnv = "UNHOSTER_CONCURRENCY"
	timeoutEnv     = "UNHOSTER_TIMEOUT"
	outputEnv      = "UNHOSTER_OUTPUT"
	logLevelEnv    = "UNHOSTER_LOG_LEVEL"
	metricsFileEnv = "UNHOSTER_METRICS_FILE"
	databaseDSNEnv = "DATABASE_DSN"

	defaultConcurrency = 15
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "Unhoster/1.0"
	defaultSchema      = "default"
	defaultLogLevel    = "info"
)

// Config holds high-level settings required across the application.
type Config struct {
	Fetch     FetchConfig     `yaml:"fetch"`
	Output    OutputConfig    `yaml:"output"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Logging   LoggingConfig   `yaml:"logging"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// FetchConfig bounds the batch downloader.
type FetchConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"userAgent"`
}

// OutputConfig controls where and how assets are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Overwrite bool   `yaml:"overwrite"`
}

// ExtractorConfig selects the field schema used to find asset URLs.
type ExtractorConfig struct {
	Schema string `yaml:"schema"`
	Nested bool   `yaml:"nested"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LedgerConfig describes the optional Postgres audit ledger.
type LedgerConfig struct {
	DSN string `yaml:"dsn"`
}

// MetricsConfig describes the optional prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load builds the configuration from defaults, a .env file, an optional YAML
// file and environment overrides. path wins over UNHOSTER_CONFIG. Unlike a
// missing .env, an unreadable or invalid config file is an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Fetch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("fetch.concurrency must be positive, got %d", c.Fetch.Concurrency))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if strings.TrimSpace(c.Extractor.Schema) == "" {
		errs = append(errs, errors.New("extractor.schema is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(concurrencyEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %q", concurrencyEnv, v)
		}
		c.Fetch.Concurrency = n
	}

	if v := os.Getenv(timeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %q", timeoutEnv, v)
		}
		c.Fetch.Timeout = d
	}

	if v := os.Getenv(outputEnv); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Ledger.DSN = v
	}

	if v := os.Getenv(metricsFileEnv); v != "" {
		c.Metrics.Textfile = v
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Fetch.Concurrency != 0 {
		base.Fetch.Concurrency = override.Fetch.Concurrency
	}
	if override.Fetch.Timeout != 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if override.Output.Overwrite {
		base.Output.Overwrite = true
	}

	if override.Extractor.Schema != "" {
		base.Extractor.Schema = override.Extractor.Schema
	}
	if override.Extractor.Nested {
		base.Extractor.Nested = true
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Ledger.DSN != "" {
		base.Ledger.DSN = override.Ledger.DSN
	}

	if override.Metrics.Textfile != "" {
		base.Metrics.Textfile = override.Metrics.Textfile
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			Concurrency: defaultConcurrency,
			Timeout:     defaultTimeout,
			UserAgent:   defaultUserAgent,
		},
		Extractor: ExtractorConfig{Schema: defaultSchema},
		Logging:   LoggingConfig{Level: defaultLogLevel},
	}
}
