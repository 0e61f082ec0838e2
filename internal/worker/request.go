// Package worker runs progression searches off the caller's goroutine and
// streams progress back over a channel. Requests and results carry only item
// names and numbers; rich values are rebuilt against a shared catalog.
package worker

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
)

// ErrInvalidRequest marks requests rejected before any search runs.
var ErrInvalidRequest = errors.New("worker: invalid request")

// Request is one search. Zero-valued tuning fields fall back to the worker's
// configuration.
type Request struct {
	RunID       string              `json:"run_id,omitempty" validate:"omitempty,uuid"`
	Checkpoints []config.Checkpoint `json:"checkpoints" validate:"required,min=1,dive"`
	Profile     string              `json:"profile,omitempty" validate:"omitempty,profile"`

	BeamWidth      int     `json:"beam_width,omitempty" validate:"gte=0"`
	Limit          int     `json:"limit,omitempty" validate:"gte=0"`
	MinReuse       float64 `json:"min_reuse,omitempty" validate:"gte=0,lte=1"`
	MaxItems       int     `json:"max_items,omitempty" validate:"gte=0"`
	CandidateLimit int     `json:"candidate_limit,omitempty" validate:"gte=0"`
}

// EnsureDefaults assigns a run ID when the caller did not.
func (r *Request) EnsureDefaults() {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
}

// Validate checks the request's tags.
func (r *Request) Validate() error {
	if err := config.ValidateStruct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Engine overlays the request's tuning on base.
func (r *Request) Engine(base progression.Config) progression.Config {
	if r.BeamWidth > 0 {
		base.BeamWidth = r.BeamWidth
	}
	if r.Limit > 0 {
		base.Limit = r.Limit
	}
	if r.MinReuse > 0 {
		base.MinReuse = r.MinReuse
	}
	if r.MaxItems > 0 {
		base.MaxItems = r.MaxItems
	}
	if r.CandidateLimit > 0 {
		base.CandidateLimit = r.CandidateLimit
	}
	return base
}
