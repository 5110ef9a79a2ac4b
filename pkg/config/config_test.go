package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.InDelta(t, 0.70, cfg.Analysis.Threshold, 1e-9)
	assert.False(t, cfg.Analysis.Parallel)
	assert.Equal(t, 2, cfg.Analysis.FallbackMinPoints)
	assert.False(t, cfg.Fallback.Enabled)
	assert.Equal(t, "gemini-2.5-flash", cfg.Fallback.Model)
	assert.Equal(t, 10*time.Second, cfg.Fallback.Timeout)
	assert.InDelta(t, 0.85, cfg.Fallback.MaxConfidence, 1e-9)
	assert.Equal(t, "http://localhost:8081/annotate", cfg.Annotator.URL)
	assert.Equal(t, 30*time.Second, cfg.Annotator.Timeout)
	assert.Equal(t, 5000, cfg.Annotator.MaxChars)
	assert.Equal(t, "grammatik.db", cfg.DB.Path)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 50, cfg.Ingest.BatchSize)
	assert.Empty(t, cfg.Taxonomy.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRAMMATIK_ANALYSIS_THRESHOLD", "0.8")
	t.Setenv("GRAMMATIK_FALLBACK_API_KEY", "secret")
	t.Setenv("GRAMMATIK_FALLBACK_TIMEOUT", "3s")
	t.Setenv("GRAMMATIK_INGEST_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.InDelta(t, 0.8, cfg.Analysis.Threshold, 1e-9)
	assert.Equal(t, "secret", cfg.Fallback.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Fallback.Timeout)
	assert.Equal(t, 8, cfg.Ingest.Workers)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "analysis:\n  parallel: true\ndb:\n  path: corpus.db\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Analysis.Parallel)
	assert.Equal(t, "corpus.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Ingest.Workers)
}

func TestLoadFindsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("grammatik.toml", []byte("[ingest]\nbatch_size = 7\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Ingest.BatchSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Analysis:  AnalysisConfig{Threshold: 0.7, FallbackMinPoints: 2},
			Fallback:  FallbackConfig{Timeout: time.Second, MaxConfidence: 0.85},
			Annotator: AnnotatorConfig{Timeout: time.Second, MaxChars: 100},
			Ingest:    IngestConfig{Workers: 1, BatchSize: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "threshold one", mutate: func(c *Config) { c.Analysis.Threshold = 1 }, ok: true},
		{name: "threshold too low", mutate: func(c *Config) { c.Analysis.Threshold = 0.5 }},
		{name: "threshold too high", mutate: func(c *Config) { c.Analysis.Threshold = 1.2 }},
		{name: "negative min points", mutate: func(c *Config) { c.Analysis.FallbackMinPoints = -1 }},
		{name: "zero fallback timeout", mutate: func(c *Config) { c.Fallback.Timeout = 0 }},
		{name: "max confidence zero", mutate: func(c *Config) { c.Fallback.MaxConfidence = 0 }},
		{name: "zero annotator timeout", mutate: func(c *Config) { c.Annotator.Timeout = 0 }},
		{name: "no annotator chunk", mutate: func(c *Config) { c.Annotator.MaxChars = 0 }},
		{name: "no workers", mutate: func(c *Config) { c.Ingest.Workers = 0 }},
		{name: "no batch", mutate: func(c *Config) { c.Ingest.BatchSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateHint(t *testing.T) {
	cfg := Config{Analysis: AnalysisConfig{Threshold: 0.1}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}
