package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
)

// Checkpoint is one serializable stage definition. It holds only primitives
// so plans can cross process and goroutine boundaries.
type Checkpoint struct {
	Ceiling         int      `yaml:"ceiling" json:"ceiling" validate:"gte=0"`
	Floor           int      `yaml:"floor,omitempty" json:"floor,omitempty" validate:"gte=0,ltefield=Ceiling"`
	Required        []string `yaml:"required,omitempty" json:"required,omitempty" validate:"dive,required"`
	Excluded        []string `yaml:"excluded,omitempty" json:"excluded,omitempty" validate:"dive,required"`
	MaxItems        int      `yaml:"max_items,omitempty" json:"max_items,omitempty" validate:"gte=0"`
	Boots           bool     `yaml:"boots,omitempty" json:"boots,omitempty"`
	AllowComponents bool     `yaml:"allow_components,omitempty" json:"allow_components,omitempty"`
}

// Plan is a named list of checkpoints, usually read from a YAML file.
type Plan struct {
	Name        string       `yaml:"name"`
	Profile     string       `yaml:"profile,omitempty" validate:"omitempty,profile"`
	Checkpoints []Checkpoint `yaml:"checkpoints" validate:"required,min=1,dive"`
}

// ToDefinition converts c into an engine stage definition.
func (c Checkpoint) ToDefinition() progression.StageDefinition {
	return progression.StageDefinition{
		Ceiling:         c.Ceiling,
		Floor:           c.Floor,
		Required:        slices.Clone(c.Required),
		Excluded:        slices.Clone(c.Excluded),
		MaxItems:        c.MaxItems,
		Boots:           c.Boots,
		AllowComponents: c.AllowComponents,
	}
}

// FromDefinition is the inverse of ToDefinition. Scorers and constraints
// are not serializable and are dropped.
func FromDefinition(d progression.StageDefinition) Checkpoint {
	return Checkpoint{
		Ceiling:         d.Ceiling,
		Floor:           d.Floor,
		Required:        slices.Clone(d.Required),
		Excluded:        slices.Clone(d.Excluded),
		MaxItems:        d.MaxItems,
		Boots:           d.Boots,
		AllowComponents: d.AllowComponents,
	}
}

// Definitions converts every checkpoint of the plan.
func Definitions(cps []Checkpoint) []progression.StageDefinition {
	defs := make([]progression.StageDefinition, len(cps))
	for i, c := range cps {
		defs[i] = c.ToDefinition()
	}
	return defs
}

// Validate checks the plan's tags.
func (p *Plan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("config: invalid plan: %w", err)
	}
	return nil
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: unmarshal plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPlan reads a plan file from disk.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read plan %s: %w", path, err)
	}
	return ParsePlan(data)
}

// TargetPlan builds a one-target-per-checkpoint plan on top of base.
func TargetPlan(targets []string, thresholds []int, base Checkpoint) (*Plan, error) {
	defs, err := progression.TargetProgression(targets, thresholds, base.ToDefinition())
	if err != nil {
		return nil, err
	}
	p := &Plan{Name: "targets", Checkpoints: make([]Checkpoint, len(defs))}
	for i, d := range defs {
		p.Checkpoints[i] = FromDefinition(d)
	}
	return p, nil
}
