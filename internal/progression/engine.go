package progression

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/beam"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/combo"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/telemetry"
)

// cancelCheckEvery is how many yielded subsets pass between context checks.
const cancelCheckEvery = 256

// ── Result ──────────────────────────────────────────────────────────

// Resolution records how a required name matched the catalog.
type Resolution struct {
	Query string
	Item  *catalog.Item
	Match catalog.MatchKind
}

// Unresolved is a required name with no catalog match.
type Unresolved struct {
	Query       string
	Suggestions []string
}

// CheckpointStats counts one checkpoint's work.
type CheckpointStats struct {
	Checkpoint int
	Evaluated  int
	Valid      int
	Survivors  int
	Elapsed    time.Duration
}

// Stats aggregates a run. Every field is zero for a run with no checkpoints.
type Stats struct {
	CandidatesEvaluated int
	CandidatesValid     int
	AverageScore        float64
	BestScore           float64

	TotalRequired    int
	ResolvedRequired int
	TargetCoverage   float64 // ResolvedRequired / TotalRequired, 0 when nothing is required

	Checkpoints []CheckpointStats
	Elapsed     time.Duration
}

// Result is the outcome of Run. Resolved and Unresolved are keyed by checkpoint index.
type Result struct {
	RunID      string
	Sequences  []*build.Sequence
	Resolved   map[int][]Resolution
	Unresolved map[int][]Unresolved
	Stats      Stats
}

// ── Engine ──────────────────────────────────────────────────────────

type engine struct {
	a       catalog.Accessor
	cfg     Config
	opts    Options
	builder *loadout.Builder
	logger  *slog.Logger
	tracer  *telemetry.Tracer
	runID   string
	start   time.Time

	checkpoints []*checkpoint
	result      *Result
}

// Run searches opts.Checkpoints against the catalog. Invalid configuration
// fails before any search; an empty outcome is a Result with no sequences.
// Cancelling ctx stops the search between subsets.
func Run(ctx context.Context, a catalog.Accessor, cfg Config, opts Options) (*Result, error) {
	if err := cfg.validate(opts.Checkpoints); err != nil {
		return nil, err
	}
	e := newEngine(a, cfg, opts)
	res, err := e.run(ctx)

	n := 0
	if res != nil {
		n = len(res.Sequences)
	}
	telemetry.ObserveRun(telemetry.Outcome(err, n))
	return res, err
}

// RunItems indexes items into a fresh catalog and runs the search.
func RunItems(ctx context.Context, items []*catalog.Item, cfg Config, opts Options) (*Result, error) {
	return Run(ctx, catalog.New(items), cfg, opts)
}

func newEngine(a catalog.Accessor, cfg Config, opts Options) *engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	valuation := opts.Valuation
	if valuation == nil {
		valuation = catalog.DeriveValuation(a)
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.FromWeights(mustWeights(scoring.ProfileBalanced), scoring.DefaultProfileOptions())
	}
	return &engine{
		a:       a,
		cfg:     cfg,
		opts:    opts,
		builder: loadout.NewBuilder(valuation),
		logger:  logger.With("run_id", opts.RunID),
		tracer:  opts.Tracer,
		runID:   opts.RunID,
		result: &Result{
			RunID:      opts.RunID,
			Sequences:  []*build.Sequence{},
			Resolved:   make(map[int][]Resolution),
			Unresolved: make(map[int][]Unresolved),
		},
	}
}

func mustWeights(name string) scoring.Weights {
	w, err := scoring.ProfileWeights(name)
	if err != nil {
		panic(err)
	}
	return w
}

func (e *engine) run(ctx context.Context) (*Result, error) {
	e.start = time.Now()
	defs := e.opts.Checkpoints
	e.emit(Progress{Phase: PhaseInitializing, Message: fmt.Sprintf("%d checkpoints, beam width %d", len(defs), e.cfg.BeamWidth)})

	if len(defs) == 0 {
		e.emit(Progress{Phase: PhaseFinalizing, Message: "no checkpoints"})
		return e.result, nil
	}

	ctx, span := e.tracer.StartRun(ctx, e.runID, len(defs), e.cfg.BeamWidth)
	seqs, err := e.search(ctx)
	e.tracer.EndRun(span, len(seqs), err)
	if err != nil {
		return nil, err
	}
	e.finalize(seqs)
	return e.result, nil
}

func (e *engine) search(ctx context.Context) ([]*build.Sequence, error) {
	e.resolveAll()

	var seqs []*build.Sequence
	for _, cp := range e.checkpoints {
		cctx, span := e.tracer.StartCheckpoint(ctx, cp.index, cp.def.Ceiling, len(seqs))
		began := time.Now()

		var (
			ctr *counter
			err error
		)
		if cp.index == 0 {
			seqs, ctr, err = e.generate(cctx, cp)
		} else {
			seqs, ctr, err = e.expand(cctx, cp, seqs)
		}
		elapsed := time.Since(began)
		e.tracer.EndCheckpoint(span, ctr.evaluated, ctr.valid, len(seqs))
		if err != nil {
			return nil, fmt.Errorf("checkpoint %d: %w", cp.index, err)
		}

		phase := telemetry.PhaseGenerate
		if cp.index > 0 {
			phase = telemetry.PhaseExpand
		}
		telemetry.ObserveCheckpoint(phase, ctr.evaluated, ctr.valid, elapsed)

		e.result.Stats.CandidatesEvaluated += ctr.evaluated
		e.result.Stats.CandidatesValid += ctr.valid
		e.result.Stats.Checkpoints = append(e.result.Stats.Checkpoints, CheckpointStats{
			Checkpoint: cp.index,
			Evaluated:  ctr.evaluated,
			Valid:      ctr.valid,
			Survivors:  len(seqs),
			Elapsed:    elapsed,
		})
		e.logger.Debug("checkpoint complete",
			"checkpoint", cp.index,
			"evaluated", ctr.evaluated,
			"valid", ctr.valid,
			"survivors", len(seqs),
			"elapsed", elapsed,
		)

		if len(seqs) == 0 {
			e.logger.Info("no surviving candidates, stopping early", "checkpoint", cp.index)
			return nil, nil
		}
	}
	return seqs, nil
}

// generate fills the first checkpoint from an empty (or boots-seeded) pool.
func (e *engine) generate(ctx context.Context, cp *checkpoint) ([]*build.Sequence, *counter, error) {
	ctr := &counter{e: e, phase: PhaseGenerating, checkpoint: cp.index}
	if err := ctx.Err(); err != nil {
		return nil, ctr, err
	}
	sp := preparePool(e.a, nil, cp.def.Ceiling, cp.def.Boots)
	cands := e.candidates(cp, sp, e.targetReference(cp.index), ctr)
	ctr.report(fmt.Sprintf("checkpoint %d: %d candidate items, budget %d", cp.index, len(cands), sp.budget))

	q := beam.New[*build.Stage](e.cfg.BeamWidth)
	n := 0
	for subset := range combo.WithRequired(cp.required, cands, e.walkOptions(cp, sp, ctr)) {
		if n++; n%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, ctr, err
			}
		}
		st, score, ok := e.evaluate(cp, sp, nil, subset)
		if !ok {
			continue
		}
		ctr.valid++
		q.Push(st, score)
	}

	ranked := q.Ranked()
	seqs := make([]*build.Sequence, len(ranked))
	for i, r := range ranked {
		seqs[i] = build.NewSequence(r.Value, r.Score)
	}
	ctr.report("")
	return seqs, ctr, nil
}

// expand grows every surviving sequence by one checkpoint and keeps the best
// BeamWidth extensions across all of them.
func (e *engine) expand(ctx context.Context, cp *checkpoint, seqs []*build.Sequence) ([]*build.Sequence, *counter, error) {
	ctr := &counter{e: e, phase: PhaseExpanding, checkpoint: cp.index, sequences: len(seqs)}
	q := beam.New[*build.Sequence](e.cfg.BeamWidth)

	n := 0
	for si, seq := range seqs {
		if err := ctx.Err(); err != nil {
			return nil, ctr, err
		}
		ctr.sequence = si + 1
		prev := seq.Last()
		sp := preparePool(e.a, prev.Loadout, cp.def.Ceiling, cp.def.Boots)
		cands := e.candidates(cp, sp, countNames(sp.pool.Components()), ctr)

		prefix := 0.0
		for _, s := range seq.Scores {
			prefix += s
		}
		stages := float64(seq.Len() + 1)

		for subset := range combo.WithRequired(cp.required, cands, e.walkOptions(cp, sp, ctr)) {
			if n++; n%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, ctr, err
				}
			}
			st, score, ok := e.evaluate(cp, sp, prev, subset)
			if !ok {
				continue
			}
			ctr.valid++
			// same summation order as build.Mean, so this equals the extended score
			if !q.Accepts((prefix + score) / stages) {
				continue
			}
			next := seq.Extend(st, score)
			q.Push(next, next.Score)
		}
		ctr.report("")
	}
	return q.Values(), ctr, nil
}

// evaluate plans one subset and applies the reuse floor, constraints and scorer.
func (e *engine) evaluate(cp *checkpoint, sp *stagePool, prev *build.Stage, subset []*catalog.Item) (*build.Stage, float64, bool) {
	st, err := planStage(e.a, e.builder, sp, prev, cp.index, subset)
	if err != nil {
		return nil, 0, false
	}
	if st.Transition != nil && st.Transition.ReuseRatio < e.cfg.MinReuse {
		return nil, 0, false
	}
	pair := scoring.StagePair{Current: st, Previous: prev}
	if !cp.constraint.Allow(pair) {
		return nil, 0, false
	}
	return st, cp.scorer.Score(pair), true
}

func (e *engine) finalize(seqs []*build.Sequence) {
	st := &e.result.Stats
	if e.cfg.Limit > 0 && len(seqs) > e.cfg.Limit {
		seqs = seqs[:e.cfg.Limit]
	}
	if seqs != nil {
		e.result.Sequences = seqs
	}

	if len(seqs) > 0 {
		total := 0.0
		st.BestScore = seqs[0].Score
		for _, s := range seqs {
			total += s.Score
			st.BestScore = max(st.BestScore, s.Score)
		}
		st.AverageScore = total / float64(len(seqs))
	}
	st.Elapsed = time.Since(e.start)

	msg := fmt.Sprintf("%d sequences, %d evaluated, %d valid", len(seqs), st.CandidatesEvaluated, st.CandidatesValid)
	e.emit(Progress{Phase: PhaseFinalizing, Evaluated: st.CandidatesEvaluated, Valid: st.CandidatesValid, Message: msg})
	e.logger.Info("search complete",
		"sequences", len(seqs),
		"evaluated", st.CandidatesEvaluated,
		"valid", st.CandidatesValid,
		"best", st.BestScore,
		"coverage", st.TargetCoverage,
		"elapsed", st.Elapsed,
	)
}

// ── Resolution ──────────────────────────────────────────────────────

func (e *engine) resolveAll() {
	st := &e.result.Stats
	e.checkpoints = make([]*checkpoint, len(e.opts.Checkpoints))
	for i, def := range e.opts.Checkpoints {
		cp := &checkpoint{
			index:      i,
			def:        def,
			maxItems:   def.MaxItems,
			isRequired: make(map[string]bool),
			excluded:   make(map[string]bool),
			scorer:     def.Scorer,
		}
		if cp.maxItems == 0 {
			cp.maxItems = e.cfg.MaxItems
		}
		if cp.maxItems == 0 {
			cp.maxItems = defaultMaxItems
		}
		if cp.scorer == nil {
			cp.scorer = e.opts.Scorer
		}
		cs := append([]scoring.Constraint{e.opts.Constraint}, def.Constraints...)
		cp.constraint = scoring.All(cs...)

		for _, q := range def.Required {
			st.TotalRequired++
			it, kind := catalog.Resolve(e.a, q)
			if it == nil {
				e.result.Unresolved[i] = append(e.result.Unresolved[i], Unresolved{
					Query:       q,
					Suggestions: catalog.Suggest(e.a, q, 3),
				})
				continue
			}
			st.ResolvedRequired++
			e.result.Resolved[i] = append(e.result.Resolved[i], Resolution{Query: q, Item: it, Match: kind})
			if !cp.isRequired[it.Name] {
				cp.isRequired[it.Name] = true
				cp.required = append(cp.required, it)
			}
		}
		for _, q := range def.Excluded {
			if it, _ := catalog.Resolve(e.a, q); it != nil {
				cp.excluded[it.Name] = true
			}
		}
		e.checkpoints[i] = cp
	}
	if st.TotalRequired > 0 {
		st.TargetCoverage = float64(st.ResolvedRequired) / float64(st.TotalRequired)
	}

	msg := fmt.Sprintf("%d/%d required items resolved", st.ResolvedRequired, st.TotalRequired)
	if len(e.result.Unresolved) > 0 {
		var missing []string
		for i := range e.checkpoints {
			for _, u := range e.result.Unresolved[i] {
				missing = append(missing, u.Query)
			}
		}
		msg += "; unresolved: " + strings.Join(missing, ", ")
		e.logger.Warn("unresolved required items", "names", missing)
	}
	e.emit(Progress{Phase: PhaseResolving, Message: msg})
}
