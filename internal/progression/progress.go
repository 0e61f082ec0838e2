package progression

import (
	"fmt"
	"time"
)

// Phase is a step of the progress protocol. Phases arrive in declaration order.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseResolving
	PhaseGenerating
	PhaseExpanding
	PhaseFinalizing
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseResolving:
		return "resolving"
	case PhaseGenerating:
		return "generating"
	case PhaseExpanding:
		return "expanding"
	case PhaseFinalizing:
		return "finalizing"
	}
	return "unknown"
}

// Progress is an observational snapshot. Counters are per checkpoint.
type Progress struct {
	RunID      string
	Phase      Phase
	Checkpoint int
	Sequence   int // 1-based index of the sequence being expanded
	Sequences  int
	Evaluated  int
	Valid      int
	Elapsed    time.Duration
	Message    string
}

func (e *engine) emit(p Progress) {
	if e.opts.Progress == nil {
		return
	}
	p.RunID = e.runID
	p.Elapsed = time.Since(e.start)
	e.opts.Progress(p)
}

// counter tracks one checkpoint's work and emits at the configured cadence.
type counter struct {
	e          *engine
	phase      Phase
	checkpoint int
	sequence   int
	sequences  int
	evaluated  int
	valid      int
}

func (c *counter) tested() {
	c.evaluated++
	if every := c.e.cfg.ProgressEvery; every > 0 && c.evaluated%every == 0 {
		c.report("")
	}
}

func (c *counter) report(msg string) {
	if msg == "" {
		msg = fmt.Sprintf("checkpoint %d: %d evaluated, %d valid", c.checkpoint, c.evaluated, c.valid)
		if c.phase == PhaseExpanding {
			msg = fmt.Sprintf("checkpoint %d sequence %d/%d: %d evaluated, %d valid",
				c.checkpoint, c.sequence, c.sequences, c.evaluated, c.valid)
		}
	}
	c.e.emit(Progress{
		Phase:      c.phase,
		Checkpoint: c.checkpoint,
		Sequence:   c.sequence,
		Sequences:  c.sequences,
		Evaluated:  c.evaluated,
		Valid:      c.valid,
		Message:    msg,
	})
}
