package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/format"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/telemetry"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/tui"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

var errNoResult = errors.New("search ended without a result")

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for build progressions",
		Long: `Search for build progressions across gold checkpoints.

Checkpoints come from a YAML plan (--plan) or from paired --targets and
--thresholds, one target item per checkpoint:

  chopshop search --targets power_treads,mekansm,black_king_bar \
      --thresholds 1500,3500,7000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool(FlagJSON)

			// explicit flag > auto-detect from TTY
			tuiEnabled, _ := cmd.Flags().GetBool(FlagTUI)
			if !cmd.Flags().Changed(FlagTUI) {
				tuiEnabled = term.IsTerminal(int(os.Stdout.Fd()))
			}
			if jsonOut {
				tuiEnabled = false
			}

			if err := a.load(cmd, tuiEnabled); err != nil {
				return err
			}
			ctx, stop, err := a.startTelemetry(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			plan, err := a.plan(cmd)
			if err != nil {
				return err
			}
			req := worker.Request{Checkpoints: plan.Checkpoints, Profile: plan.Profile}
			if cmd.Flags().Changed(FlagProfile) {
				req.Profile = a.cfg.Scoring.Profile
			}

			w, err := a.newWorker()
			if err != nil {
				return err
			}

			var sum *worker.Summary
			if tuiEnabled {
				sum, err = a.searchTUI(ctx, w, req, plan.Name)
			} else {
				sum, err = a.searchPlain(ctx, w, req)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, sum)
			}
			seqs, err := sum.Reconstruct(w.Catalog(), w.Valuation())
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, format.FormatResult(w.Catalog(), seqs, sum))
			return err
		},
	}

	addSearchFlags(cmd.Flags())
	cmd.Flags().Bool(FlagJSON, false, "Output the result as JSON")
	cmd.Flags().Bool(FlagTUI, false, "Show live progress (default: on when stdout is a terminal)")
	cmd.Flags().Bool(FlagTracing, false, "Print trace spans to stderr")
	cmd.Flags().String(FlagMetricsAddr, "", "Serve Prometheus metrics on this address during the search")
	return cmd
}

// plan reads checkpoints from --plan, or builds them from --targets and
// --thresholds.
func (a *app) plan(cmd *cobra.Command) (*config.Plan, error) {
	path, _ := cmd.Flags().GetString(FlagPlan)
	targets, _ := cmd.Flags().GetStringSlice(FlagTargets)
	thresholds, _ := cmd.Flags().GetIntSlice(FlagThresholds)

	switch {
	case path != "" && len(targets) > 0:
		return nil, fmt.Errorf("--%s and --%s are incompatible", FlagPlan, FlagTargets)
	case path != "":
		return config.LoadPlan(path)
	case len(targets) == 0:
		return nil, fmt.Errorf("either --%s or --%s is required", FlagPlan, FlagTargets)
	}

	boots, _ := cmd.Flags().GetBool(FlagBoots)
	components, _ := cmd.Flags().GetBool(FlagComponents)
	base := config.Checkpoint{
		MaxItems:        a.cfg.Search.MaxItems,
		Boots:           boots,
		AllowComponents: components,
	}
	p, err := config.TargetPlan(targets, thresholds, base)
	if err != nil {
		return nil, err
	}
	p.Name = strings.Join(targets, " > ")
	return p, nil
}

// startTelemetry installs tracing and the metrics endpoint when configured.
// The returned stop flushes spans and shuts the endpoint down.
func (a *app) startTelemetry(ctx context.Context) (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	var traceOut io.Writer
	if a.cfg.Telemetry.Tracing {
		traceOut = a.stderr
	}
	shutdown, err := telemetry.Setup(traceOut, version)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("setup tracing: %w", err)
	}
	if addr := a.cfg.Telemetry.MetricsAddr; addr != "" {
		telemetry.ServeMetrics(ctx, addr, a.logger)
	}

	stop := func() {
		cancel()
		if err := shutdown(context.Background()); err != nil {
			a.logger.Warn("flush traces", "error", err)
		}
	}
	return ctx, stop, nil
}

func (a *app) searchPlain(ctx context.Context, w *worker.Worker, req worker.Request) (*worker.Summary, error) {
	for m := range w.Start(ctx, req) {
		if !m.Final() {
			p := m.Progress
			a.logger.Debug("progress",
				"phase", p.Phase.String(),
				"checkpoint", p.Checkpoint,
				"evaluated", p.Evaluated,
				"valid", p.Valid,
				"message", p.Message)
			continue
		}
		return m.Result, m.Err
	}
	return nil, errNoResult
}

func (a *app) searchTUI(ctx context.Context, w *worker.Worker, req worker.Request, title string) (*worker.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	final, err := tui.New(w.Start(ctx, req),
		tui.WithTitle("chopshop: "+title),
		tui.WithOnCancel(cancel),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	if final == nil {
		return nil, errNoResult
	}
	return final.Result, final.Err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
