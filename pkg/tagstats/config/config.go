package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
)

// Config holds the analysis constants for a run. It is an explicit
// object handed to the pipeline; nothing here lives in mutable
// package state.
type Config struct {
	// Timezone is the IANA name of the target zone that hour, weekday
	// and calendar buckets are derived in. The extract itself is UTC.
	Timezone string `yaml:"timezone"`

	// SLASeconds is the window for the "answered fast" flags: an
	// answer counts when its time-to-answer is strictly below this.
	SLASeconds int64 `yaml:"sla_seconds"`

	// Truncation sizes for the ranked aggregates.
	TopTags          int `yaml:"top_tags"`
	TopAdjacencyTags int `yaml:"top_adjacency_tags"`
	TopTrendTags     int `yaml:"top_trend_tags"`
	TopHourTags      int `yaml:"top_hour_tags"`
	TopWords         int `yaml:"top_words"`

	// Calendar-year bounds (inclusive) applied to question creation
	// dates in the target zone. Zero means unbounded on that side.
	YearStart int `yaml:"year_start"`
	YearEnd   int `yaml:"year_end"`

	// Stopwords dropped from title-word aggregation.
	Stopwords []string `yaml:"stopwords"`

	loc *time.Location
}

// Default returns the constants the published analysis used.
func Default() Config {
	return Config{
		Timezone:         "America/New_York",
		SLASeconds:       14400, // 4 hours
		TopTags:          1000,
		TopAdjacencyTags: 40,
		TopTrendTags:     30,
		TopHourTags:      20,
		TopWords:         20,
		YearStart:        2017,
		YearEnd:          2017,
		Stopwords:        defaultStopwords,
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.SLASeconds == 0 {
		c.SLASeconds = def.SLASeconds
	}
	if c.TopTags == 0 {
		c.TopTags = def.TopTags
	}
	if c.TopAdjacencyTags == 0 {
		c.TopAdjacencyTags = def.TopAdjacencyTags
	}
	if c.TopTrendTags == 0 {
		c.TopTrendTags = def.TopTrendTags
	}
	if c.TopHourTags == 0 {
		c.TopHourTags = def.TopHourTags
	}
	if c.TopWords == 0 {
		c.TopWords = def.TopWords
	}
	if len(c.Stopwords) == 0 {
		c.Stopwords = def.Stopwords
	}
}

// Validate checks the config for values the pipeline cannot run with.
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", internalerr.ErrInvalidConfig, c.Timezone, err)
	}
	c.loc = loc
	if c.SLASeconds <= 0 {
		return fmt.Errorf("%w: sla_seconds must be positive, got %d", internalerr.ErrInvalidConfig, c.SLASeconds)
	}
	if c.YearStart != 0 && c.YearEnd != 0 && c.YearEnd < c.YearStart {
		return fmt.Errorf("%w: year_end %d before year_start %d", internalerr.ErrInvalidConfig, c.YearEnd, c.YearStart)
	}
	return nil
}

// Location returns the loaded target zone, resolving it on first use.
func (c *Config) Location() (*time.Location, error) {
	if c.loc != nil {
		return c.loc, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", internalerr.ErrInvalidConfig, c.Timezone, err)
	}
	c.loc = loc
	return loc, nil
}

// SLAWindow returns the fast-answer window as a duration.
func (c Config) SLAWindow() time.Duration {
	return time.Duration(c.SLASeconds) * time.Second
}
