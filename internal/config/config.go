// Package config provides configuration types and defaults for chopshop.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
)

// Config holds all configuration for chopshop.
type Config struct {
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// SearchConfig holds beam search tuning.
type SearchConfig struct {
	BeamWidth      int           `yaml:"beam_width" mapstructure:"beam_width" validate:"gte=1"`
	ResultLimit    int           `yaml:"result_limit" mapstructure:"result_limit" validate:"gte=0"` // 0 = every survivor
	MinReuseRatio  float64       `yaml:"min_reuse_ratio" mapstructure:"min_reuse_ratio" validate:"gte=0,lte=1"`
	MaxItems       int           `yaml:"max_items" mapstructure:"max_items" validate:"gte=1"`
	ProgressEvery  int           `yaml:"progress_every" mapstructure:"progress_every" validate:"gte=0"`
	CandidateLimit int           `yaml:"candidate_limit" mapstructure:"candidate_limit" validate:"gte=0"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // 0 = no deadline
}

// ScoringConfig selects and tunes the stage scorer.
type ScoringConfig struct {
	Profile          string          `yaml:"profile" mapstructure:"profile" validate:"profile"`
	Weights          scoring.Weights `yaml:"weights" mapstructure:"weights"` // overrides Profile when any weight is set
	AffordabilityMax float64         `yaml:"affordability_max" mapstructure:"affordability_max" validate:"gt=0"`
	EfficiencyMax    float64         `yaml:"efficiency_max" mapstructure:"efficiency_max" validate:"gt=0"`
	UtilityMax       float64         `yaml:"utility_max" mapstructure:"utility_max" validate:"gt=0"`

	// Valuation overrides derived gold-per-point values by stat key.
	Valuation map[string]float64 `yaml:"valuation" mapstructure:"valuation" validate:"dive,gte=0"`
}

// PathsConfig holds input and output file locations.
type PathsConfig struct {
	Catalog string `yaml:"catalog" mapstructure:"catalog" validate:"required"`
	Utility string `yaml:"utility" mapstructure:"utility"` // empty uses the built-in table
	Log     string `yaml:"log" mapstructure:"log"`         // empty logs to stderr
}

// LogRotationConfig holds settings for log file rotation.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// TelemetryConfig toggles tracing and the metrics endpoint.
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" mapstructure:"tracing"`
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	engine := progression.DefaultConfig()
	opts := scoring.DefaultProfileOptions()
	return &Config{
		Search: SearchConfig{
			BeamWidth:      engine.BeamWidth,
			ResultLimit:    engine.Limit,
			MinReuseRatio:  engine.MinReuse,
			MaxItems:       engine.MaxItems,
			ProgressEvery:  engine.ProgressEvery,
			CandidateLimit: engine.CandidateLimit,
		},
		Scoring: ScoringConfig{
			Profile:          scoring.ProfileBalanced,
			AffordabilityMax: opts.AffordabilityMax,
			EfficiencyMax:    opts.EfficiencyMax,
			UtilityMax:       opts.UtilityMax,
		},
		Paths: PathsConfig{
			Catalog: "items.json",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("profile", validateProfile)
}

// validateProfile accepts a known scoring profile name.
func validateProfile(fl validator.FieldLevel) bool {
	_, err := scoring.ProfileWeights(fl.Field().String())
	return err == nil
}

// ValidateStruct checks s against its validate tags, including the
// "profile" tag for scoring profile names.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// Validate checks every field against its tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// Engine converts the search section into engine tuning.
func (c *Config) Engine() progression.Config {
	return progression.Config{
		BeamWidth:      c.Search.BeamWidth,
		Limit:          c.Search.ResultLimit,
		MinReuse:       c.Search.MinReuseRatio,
		MaxItems:       c.Search.MaxItems,
		ProgressEvery:  c.Search.ProgressEvery,
		CandidateLimit: c.Search.CandidateLimit,
	}
}

// ProfileOptions returns the scorer normalization limits.
func (c *Config) ProfileOptions(utility *scoring.UtilityTable) scoring.ProfileOptions {
	return scoring.ProfileOptions{
		AffordabilityMax: c.Scoring.AffordabilityMax,
		EfficiencyMax:    c.Scoring.EfficiencyMax,
		UtilityMax:       c.Scoring.UtilityMax,
		Utility:          utility,
	}
}

// Scorer builds the configured stage scorer. Explicit weights win over the
// profile name.
func (c *Config) Scorer(utility *scoring.UtilityTable) (scoring.StageScorer, error) {
	if w := c.Scoring.Weights; w != (scoring.Weights{}) {
		return scoring.FromWeights(w, c.ProfileOptions(utility)), nil
	}
	return scoring.Profile(c.Scoring.Profile, c.ProfileOptions(utility))
}

// UtilityTable loads the configured table, or the built-in one.
func (c *Config) UtilityTable() (*scoring.UtilityTable, error) {
	if c.Paths.Utility == "" {
		return scoring.DefaultUtilityTable(), nil
	}
	return scoring.LoadUtilityTable(c.Paths.Utility)
}
