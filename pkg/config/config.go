// Package config loads grammatik settings from defaults, an optional config
// file and GRAMMATIK_* environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// MinThreshold is the lowest acceptance threshold a configuration may set.
const MinThreshold = 0.70

// Config is the full configuration tree.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Annotator AnnotatorConfig `mapstructure:"annotator"`
	DB        DBConfig        `mapstructure:"db"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy"`
	Log       LogConfig       `mapstructure:"log"`
}

type AnalysisConfig struct {
	Threshold         float64 `mapstructure:"threshold"`
	Parallel          bool    `mapstructure:"parallel"`
	FallbackMinPoints int     `mapstructure:"fallback_min_points"`
}

type FallbackConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConfidence float64       `mapstructure:"max_confidence"`
}

type AnnotatorConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxChars bounds the text sent in one request when a document is
	// annotated piecewise.
	MaxChars int `mapstructure:"max_chars"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type IngestConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

// TaxonomyConfig points at an optional catalog override file. Empty means
// the embedded catalog.
type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for AutomaticEnv to apply during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("analysis.threshold", 0.70)
	v.SetDefault("analysis.parallel", false)
	v.SetDefault("analysis.fallback_min_points", 2)

	v.SetDefault("fallback.enabled", false)
	v.SetDefault("fallback.api_key", "")
	v.SetDefault("fallback.model", "gemini-2.5-flash")
	v.SetDefault("fallback.timeout", 10*time.Second)
	v.SetDefault("fallback.max_confidence", 0.85)

	v.SetDefault("annotator.url", "http://localhost:8081/annotate")
	v.SetDefault("annotator.timeout", 30*time.Second)
	v.SetDefault("annotator.max_chars", 5000)

	v.SetDefault("db.path", "grammatik.db")

	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.batch_size", 50)

	v.SetDefault("taxonomy.path", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with env binding and defaults applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GRAMMATIK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration. When path is empty, grammatik.toml or
// grammatik.yaml in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := New()

	if path == "" {
		path = findConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfig() string {
	for _, name := range []string{"grammatik.toml", "grammatik.yaml", "grammatik.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Analysis.Threshold < MinThreshold || c.Analysis.Threshold > 1 {
		return errors.WithHintf(
			errors.Newf("analysis.threshold %.2f out of range", c.Analysis.Threshold),
			"set a value between %.2f and 1.0", MinThreshold)
	}
	if c.Analysis.FallbackMinPoints < 0 {
		return errors.WithHint(
			errors.Newf("analysis.fallback_min_points %d is negative", c.Analysis.FallbackMinPoints),
			"use 0 to disable the fallback trigger")
	}
	if c.Fallback.Timeout <= 0 {
		return errors.WithHint(
			errors.Newf("fallback.timeout %s must be positive", c.Fallback.Timeout),
			"use a duration such as 10s")
	}
	if c.Fallback.MaxConfidence <= 0 || c.Fallback.MaxConfidence > 1 {
		return errors.Newf("fallback.max_confidence %.2f out of range (0,1]", c.Fallback.MaxConfidence)
	}
	if c.Annotator.Timeout <= 0 {
		return errors.WithHint(
			errors.Newf("annotator.timeout %s must be positive", c.Annotator.Timeout),
			"use a duration such as 30s")
	}
	if c.Annotator.MaxChars < 1 {
		return errors.Newf("annotator.max_chars %d must be at least 1", c.Annotator.MaxChars)
	}
	if c.Ingest.Workers < 1 {
		return errors.WithHint(
			errors.Newf("ingest.workers %d must be at least 1", c.Ingest.Workers),
			"set GRAMMATIK_INGEST_WORKERS or ingest.workers in the config file")
	}
	if c.Ingest.BatchSize < 1 {
		return errors.WithHint(
			errors.Newf("ingest.batch_size %d must be at least 1", c.Ingest.BatchSize),
			"set GRAMMATIK_INGEST_BATCH_SIZE or ingest.batch_size in the config file")
	}
	return nil
}
