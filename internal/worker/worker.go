package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/telemetry"
)

// DefaultBufferSize is the message channel capacity.
const DefaultBufferSize = 64

// Message is one item on a worker channel: a progress snapshot, or the
// final result or error. The channel closes after the final message.
type Message struct {
	Progress *progression.Progress
	Result   *Summary
	Err      error
}

// Final reports whether m ends the stream.
func (m Message) Final() bool { return m.Progress == nil }

// Worker runs requests against one shared catalog. It is safe for
// concurrent use.
type Worker struct {
	catalog   catalog.Accessor
	cfg       *config.Config
	valuation catalog.Valuation
	utility   *scoring.UtilityTable
	logger    *slog.Logger
	tracer    *telemetry.Tracer
}

// New prepares a worker. The stat valuation is derived from the catalog once
// and then overridden by cfg.Scoring.Valuation.
func New(a catalog.Accessor, cfg *config.Config, logger *slog.Logger) (*Worker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	utility, err := cfg.UtilityTable()
	if err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return &Worker{
		catalog:   a,
		cfg:       cfg,
		valuation: catalog.DeriveValuation(a).Merge(cfg.Scoring.Valuation),
		utility:   utility,
		logger:    logger,
		tracer:    telemetry.NewTracer(logger, cfg.Telemetry.Tracing),
	}, nil
}

// Catalog is the shared catalog results are rebuilt against.
func (w *Worker) Catalog() catalog.Accessor { return w.catalog }

// Valuation is the stat valuation every run uses.
func (w *Worker) Valuation() catalog.Valuation { return w.valuation }

// Start runs req on a new goroutine. Progress is sent without blocking and
// dropped when the receiver lags; the final message waits for the receiver
// or for ctx.
func (w *Worker) Start(ctx context.Context, req Request) <-chan Message {
	req.EnsureDefaults()
	out := make(chan Message, DefaultBufferSize)
	go func() {
		defer close(out)

		dropped := 0
		onProgress := func(p progression.Progress) {
			select {
			case out <- Message{Progress: &p}:
			default:
				dropped++
			}
		}
		sum, err := w.run(ctx, req, onProgress)
		if dropped > 0 {
			w.logger.Debug("progress dropped: receiver lagging", "run_id", req.RunID, "dropped", dropped)
		}

		final := Message{Result: sum, Err: err}
		select {
		case out <- final:
			return
		default:
		}
		select {
		case out <- final:
		case <-ctx.Done():
		}
	}()
	return out
}

// Run executes req on the calling goroutine.
func (w *Worker) Run(ctx context.Context, req Request) (*Summary, error) {
	return w.run(ctx, req, nil)
}

func (w *Worker) run(ctx context.Context, req Request, onProgress func(progression.Progress)) (*Summary, error) {
	req.EnsureDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scorer, err := w.scorer(req.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if d := w.cfg.Search.Timeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	logger := w.logger.With("run_id", req.RunID)
	logger.Info("search starting", "checkpoints", len(req.Checkpoints), "profile", req.Profile)

	res, err := progression.Run(ctx, w.catalog, req.Engine(w.cfg.Engine()), progression.Options{
		Checkpoints: config.Definitions(req.Checkpoints),
		Valuation:   w.valuation,
		Scorer:      scorer,
		Progress:    onProgress,
		Logger:      logger,
		Tracer:      w.tracer,
		RunID:       req.RunID,
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", req.RunID, err)
	}
	return Summarize(res, req.Checkpoints), nil
}

func (w *Worker) scorer(profile string) (scoring.StageScorer, error) {
	if profile == "" {
		return w.cfg.Scorer(w.utility)
	}
	return scoring.Profile(profile, w.cfg.ProfileOptions(w.utility))
}
