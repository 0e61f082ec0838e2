package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/testutil"
)

func newWorker(t *testing.T) *Worker {
	t.Helper()
	cfg := config.Default()
	cfg.Search.BeamWidth = 6
	cfg.Search.ProgressEvery = 10
	w, err := New(testutil.Catalog(), cfg, nil)
	require.NoError(t, err)
	return w
}

func targetsRequest() Request {
	base := config.Checkpoint{AllowComponents: true, Boots: true, MaxItems: 3}
	req := Request{Limit: 4}
	for _, tc := range []struct {
		target  string
		ceiling int
	}{{"power_treads", 1500}, {"mekansm", 3500}, {"black_king_bar", 7000}} {
		cp := base
		cp.Ceiling = tc.ceiling
		cp.Required = []string{tc.target}
		req.Checkpoints = append(req.Checkpoints, cp)
	}
	return req
}

func drain(ch <-chan Message) (progress []progression.Progress, final []Message) {
	for m := range ch {
		if m.Final() {
			final = append(final, m)
			continue
		}
		progress = append(progress, *m.Progress)
	}
	return progress, final
}

func TestNew_ValuationOverrides(t *testing.T) {
	c := testutil.Catalog()
	cfg := config.Default()
	cfg.Scoring.Valuation = map[string]float64{"strength": 120, "stat": 100}
	w, err := New(c, cfg, nil)
	require.NoError(t, err)

	base, err := New(c, config.Default(), nil)
	require.NoError(t, err)

	v := w.Valuation()
	assert.InDelta(t, 120.0, v["strength"], 1e-9)
	assert.InDelta(t, 100.0, v["stat"], 1e-9)
	assert.InDelta(t, base.Valuation()["damage"], v["damage"], 1e-9, "keys without an override stay derived")
	assert.NotContains(t, base.Valuation(), "stat")
}

func TestStart_StreamsProgressThenResult(t *testing.T) {
	w := newWorker(t)
	progress, final := drain(w.Start(context.Background(), targetsRequest()))

	require.Len(t, final, 1)
	require.NoError(t, final[0].Err)
	sum := final[0].Result
	require.NotNil(t, sum)
	assert.NotEmpty(t, sum.Sequences)
	assert.LessOrEqual(t, len(sum.Sequences), 4)
	_, err := uuid.Parse(sum.RunID)
	assert.NoError(t, err)

	require.NotEmpty(t, progress)
	assert.Equal(t, progression.PhaseInitializing, progress[0].Phase)
	for _, p := range progress {
		assert.Equal(t, sum.RunID, p.RunID)
	}
}

func TestStart_InvalidRequest(t *testing.T) {
	w := newWorker(t)
	tests := map[string]Request{
		"no checkpoints": {},
		"bad profile":    {Profile: "greedy", Checkpoints: []config.Checkpoint{{Ceiling: 100}}},
		"bad run id":     {RunID: "run-1", Checkpoints: []config.Checkpoint{{Ceiling: 100}}},
		"bad floor":      {Checkpoints: []config.Checkpoint{{Ceiling: 100, Floor: 200}}},
		"bad reuse":      {MinReuse: 2, Checkpoints: []config.Checkpoint{{Ceiling: 100}}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			progress, final := drain(w.Start(context.Background(), req))
			assert.Empty(t, progress)
			require.Len(t, final, 1)
			assert.ErrorIs(t, final[0].Err, ErrInvalidRequest)
			assert.Nil(t, final[0].Result)
		})
	}
}

func TestStart_Cancelled(t *testing.T) {
	w := newWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, final := drain(w.Start(ctx, targetsRequest()))
	require.Len(t, final, 1)
	assert.ErrorIs(t, final[0].Err, context.Canceled)
}

func TestStart_Timeout(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Timeout = 1 // a nanosecond expires before the first checkpoint
	w, err := New(testutil.Catalog(), cfg, nil)
	require.NoError(t, err)

	_, err = w.Run(context.Background(), targetsRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_KeepsRunID(t *testing.T) {
	w := newWorker(t)
	req := targetsRequest()
	req.RunID = uuid.NewString()
	sum, err := w.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.RunID, sum.RunID)
}

func TestRun_Unresolved(t *testing.T) {
	w := newWorker(t)
	req := Request{Checkpoints: []config.Checkpoint{
		{Ceiling: 3000, Required: []string{"power_tread_of_doom"}, AllowComponents: true},
	}}
	sum, err := w.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, sum.Unresolved, 1)
	assert.Equal(t, 0, sum.Unresolved[0].Checkpoint)
	assert.Equal(t, "power_tread_of_doom", sum.Unresolved[0].Query)
	assert.Zero(t, sum.Coverage)
}

func TestRequest_Engine(t *testing.T) {
	base := progression.DefaultConfig()
	req := Request{BeamWidth: 3, MinReuse: 0.5}
	got := req.Engine(base)
	assert.Equal(t, 3, got.BeamWidth)
	assert.Equal(t, 0.5, got.MinReuse)
	assert.Equal(t, base.Limit, got.Limit)
	assert.Equal(t, base.MaxItems, got.MaxItems)
}

func TestSummary_ReconstructRoundTrip(t *testing.T) {
	w := newWorker(t)
	sum, err := w.Run(context.Background(), targetsRequest())
	require.NoError(t, err)
	require.NotEmpty(t, sum.Sequences)

	data, err := json.Marshal(sum)
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))

	seqs, err := decoded.Reconstruct(w.Catalog(), w.Valuation())
	require.NoError(t, err)
	require.Len(t, seqs, len(sum.Sequences))

	for i, seq := range seqs {
		want := sum.Sequences[i]
		assert.Equal(t, want.Score, seq.Score)
		require.Len(t, seq.Stages, len(want.Stages))
		for j, st := range seq.Stages {
			ws := want.Stages[j]
			assert.Equal(t, ws.Items, st.Loadout.Names())
			assert.Equal(t, ws.InvestedCost, st.Loadout.InvestedCost)
			if j == 0 {
				assert.Nil(t, st.Transition)
				continue
			}
			require.NotNil(t, st.Transition)
			assert.Equal(t, ws.ReuseRatio, st.Transition.ReuseRatio)
			assert.Equal(t, ws.GoldNeeded, st.Transition.Flow.TotalGoldNeeded)
			assert.Same(t, seq.Stages[j-1].Loadout, st.Transition.From)
		}
	}
}

func TestSummary_ReconstructErrors(t *testing.T) {
	c := testutil.Catalog()
	v := testutil.Valuation()

	unknown := &Summary{Sequences: []SequenceSummary{{Stages: []StageSummary{
		{Ceiling: 1000, Items: []string{"divine_rapier"}},
	}}}}
	_, err := unknown.Reconstruct(c, v)
	assert.ErrorIs(t, err, ErrUnknownItem)

	diverged := &Summary{Sequences: []SequenceSummary{{Stages: []StageSummary{
		{Ceiling: 1500, Items: []string{"power_treads"}, Leftovers: []string{"boots"}},
	}}}}
	_, err = diverged.Reconstruct(c, v)
	assert.ErrorIs(t, err, ErrDiverged)

	over := &Summary{Sequences: []SequenceSummary{{Stages: []StageSummary{
		{Ceiling: 1000, Items: []string{"black_king_bar"}},
	}}}}
	_, err = over.Reconstruct(c, v)
	assert.ErrorIs(t, err, progression.ErrOverCeiling)
}
