package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/format"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one search per scoring profile and tabulate the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, false); err != nil {
				return err
			}
			plan, err := a.plan(cmd)
			if err != nil {
				return err
			}
			w, err := a.newWorker()
			if err != nil {
				return err
			}

			profiles := scoring.Profiles()
			if cmd.Flags().Changed(FlagProfile) {
				profiles = []string{a.cfg.Scoring.Profile}
			}
			rows, err := compareProfiles(cmd.Context(), w, plan.Checkpoints, profiles)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool(FlagJSON); jsonOut {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			format.PrintTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	addSearchFlags(cmd.Flags())
	cmd.Flags().Bool(FlagJSON, false, "Output rows as JSON")
	return cmd
}

// compareProfiles runs the same checkpoints once per profile concurrently.
// Rows keep the order of profiles.
func compareProfiles(ctx context.Context, w *worker.Worker, cps []config.Checkpoint, profiles []string) ([]format.ProfileRow, error) {
	rows := make([]format.ProfileRow, len(profiles))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range profiles {
		g.Go(func() error {
			sum, err := w.Run(ctx, worker.Request{Checkpoints: cps, Profile: name})
			if err != nil {
				return err
			}
			row := format.ProfileRow{
				Profile:   name,
				Best:      sum.BestScore,
				Average:   sum.AverageScore,
				Sequences: len(sum.Sequences),
				TimeMs:    sum.ElapsedMS,
			}
			if len(sum.Sequences) > 0 {
				stages := sum.Sequences[0].Stages
				row.Top = strings.Join(stages[len(stages)-1].Items, ", ")
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
