// Package progression searches multi-checkpoint build progressions with a
// component-reusing beam search.
package progression

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/telemetry"
)

var (
	ErrMismatchedTargets = errors.New("targets and thresholds differ in length")
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
	ErrInvalidBeamWidth  = errors.New("beam width must be positive")
	ErrInvalidMinReuse   = errors.New("minimum reuse ratio must be within [0,1]")
)

// StageDefinition describes one checkpoint. Ceiling is the cumulative gold
// the loadout may represent at that point.
type StageDefinition struct {
	Ceiling  int
	Floor    int // minimum summed item cost of a subset, 0 for none
	Required []string
	Excluded []string
	MaxItems int // 0 uses Config.MaxItems

	Scorer      scoring.StageScorer  // nil uses Options.Scorer
	Constraints []scoring.Constraint // ANDed with Options.Constraint

	Boots           bool // inject boots into the pool when absent
	AllowComponents bool // allow raw base components as candidate items
}

// Config holds search tuning parameters. Adjust these to trade speed for
// solution quality.
type Config struct {
	// BeamWidth is how many candidates or sequences survive each checkpoint.
	BeamWidth int
	// Limit caps returned sequences. 0 returns every survivor.
	Limit int
	// MinReuse rejects transitions consuming less than this share of the pool.
	MinReuse float64
	// MaxItems is the item cap for checkpoints that do not set one.
	MaxItems int
	// ProgressEvery is the number of tested subsets between progress events. 0 disables them.
	ProgressEvery int
	// CandidateLimit caps the prioritized candidate items per checkpoint. 0 means no cap.
	CandidateLimit int
}

// DefaultConfig returns the tuning used by the CLI.
func DefaultConfig() Config {
	return Config{
		BeamWidth:     50,
		Limit:         10,
		MaxItems:      6,
		ProgressEvery: 5000,
	}
}

// Options carries the per-run inputs.
type Options struct {
	Checkpoints []StageDefinition

	// Valuation prices stats; nil derives one from the catalog.
	Valuation catalog.Valuation
	// Scorer is the default stage scorer; nil uses the balanced profile.
	Scorer     scoring.StageScorer
	Constraint scoring.Constraint

	Progress func(Progress)
	Logger   *slog.Logger
	Tracer   *telemetry.Tracer
	RunID    string
}

func (c Config) validate(defs []StageDefinition) error {
	if c.BeamWidth < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBeamWidth, c.BeamWidth)
	}
	if c.MinReuse < 0 || c.MinReuse > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidMinReuse, c.MinReuse)
	}
	for i, d := range defs {
		switch {
		case d.Ceiling < 0:
			return fmt.Errorf("%w %d: negative ceiling %d", ErrInvalidCheckpoint, i, d.Ceiling)
		case d.Floor < 0 || d.Floor > d.Ceiling:
			return fmt.Errorf("%w %d: floor %d outside [0,%d]", ErrInvalidCheckpoint, i, d.Floor, d.Ceiling)
		case d.MaxItems < 0:
			return fmt.Errorf("%w %d: negative item cap %d", ErrInvalidCheckpoint, i, d.MaxItems)
		}
	}
	return nil
}

// TargetProgression builds one checkpoint per target: checkpoint i has
// ceiling thresholds[i] and requires targets[i] on top of base.Required.
// Thresholds must be positive and strictly increasing.
func TargetProgression(targets []string, thresholds []int, base StageDefinition) ([]StageDefinition, error) {
	if len(targets) != len(thresholds) {
		return nil, fmt.Errorf("%w: %d targets, %d thresholds", ErrMismatchedTargets, len(targets), len(thresholds))
	}
	defs := make([]StageDefinition, len(targets))
	for i, target := range targets {
		if thresholds[i] <= 0 {
			return nil, fmt.Errorf("%w %d: threshold %d must be positive", ErrInvalidCheckpoint, i, thresholds[i])
		}
		if i > 0 && thresholds[i] <= thresholds[i-1] {
			return nil, fmt.Errorf("%w %d: threshold %d not above %d", ErrInvalidCheckpoint, i, thresholds[i], thresholds[i-1])
		}
		d := base
		d.Ceiling = thresholds[i]
		d.Required = append(slices.Clone(base.Required), target)
		d.Excluded = slices.Clone(base.Excluded)
		d.Constraints = slices.Clone(base.Constraints)
		defs[i] = d
	}
	return defs, nil
}
