package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/format"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/testutil"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

// workspace isolates config lookup and writes the fixture catalog to
// ./items.json.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("items.json", []byte(testutil.ItemsJSON), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	t.Cleanup(a.close)

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

var targetArgs = []string{
	"--targets", "power_treads,mekansm,black_king_bar",
	"--thresholds", "1500,3500,7000",
	"--beam-width", "6",
}

func TestVersion(t *testing.T) {
	workspace(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "chopshop dev\n", out)
}

func TestItems_List(t *testing.T) {
	workspace(t)
	out, err := execute(t, "items")
	require.NoError(t, err)
	assert.Contains(t, out, "power_treads")
	assert.Contains(t, out, "Gloves of Haste")

	out, err = execute(t, "items", "--upgraded")
	require.NoError(t, err)
	assert.Contains(t, out, "Black King Bar")
	assert.NotContains(t, out, "Gloves of Haste")
}

func TestItems_Resolve(t *testing.T) {
	workspace(t)
	out, err := execute(t, "items", "Power Treads", "mekansn")
	require.NoError(t, err)
	assert.Contains(t, out, `"Power Treads": display_name match`)
	assert.Contains(t, out, `"mekansn": no match`)
	assert.Contains(t, out, "did you mean mekansm")
}

func TestItems_MissingCatalog(t *testing.T) {
	workspace(t)
	_, err := execute(t, "items", "--catalog", "nope.json")
	assert.ErrorContains(t, err, "load catalog")
}

func TestSearch_JSON(t *testing.T) {
	workspace(t)
	out, err := execute(t, append([]string{"search", "--json", "--limit", "3"}, targetArgs...)...)
	require.NoError(t, err)

	var sum worker.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.NotEmpty(t, sum.Sequences)
	assert.LessOrEqual(t, len(sum.Sequences), 3)
	for _, seq := range sum.Sequences {
		require.Len(t, seq.Stages, 3)
		assert.Contains(t, seq.Stages[2].Items, "black_king_bar")
	}
}

func TestSearch_Text(t *testing.T) {
	workspace(t)
	out, err := execute(t, append([]string{"search", "--tui=false"}, targetArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Power Treads")
	assert.Contains(t, out, "Black King Bar")
	assert.Contains(t, out, "evaluated")
}

func TestSearch_Plan(t *testing.T) {
	workspace(t)
	plan := `
name: treads into mek
checkpoints:
  - ceiling: 1500
    required: [power_treads]
    boots: true
    allow_components: true
  - ceiling: 3500
    required: [mekansm]
    boots: true
    allow_components: true
`
	require.NoError(t, os.WriteFile("plan.yaml", []byte(plan), 0o644))

	out, err := execute(t, "search", "--json", "--plan", "plan.yaml", "--beam-width", "4")
	require.NoError(t, err)
	var sum worker.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.NotEmpty(t, sum.Sequences)
	assert.Contains(t, sum.Sequences[0].Stages[1].Items, "mekansm")
}

func TestSearch_Errors(t *testing.T) {
	workspace(t)

	_, err := execute(t, "search", "--json")
	assert.ErrorContains(t, err, "either --plan or --targets is required")

	_, err = execute(t, "search", "--json", "--plan", "p.yaml", "--targets", "mekansm")
	assert.ErrorContains(t, err, "incompatible")

	_, err = execute(t, "search", "--json", "--targets", "mekansm,black_king_bar", "--thresholds", "3500")
	assert.ErrorIs(t, err, progression.ErrMismatchedTargets)

	_, err = execute(t, append([]string{"search", "--json", "--profile", "greedy"}, targetArgs...)...)
	assert.ErrorContains(t, err, "load config")
}

func TestSearch_ConfigFile(t *testing.T) {
	workspace(t)
	require.NoError(t, os.MkdirAll(".chopshop", 0o755))
	cfg := "search:\n  result_limit: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(".chopshop", "config.yaml"), []byte(cfg), 0o644))

	out, err := execute(t, append([]string{"search", "--json"}, targetArgs...)...)
	require.NoError(t, err)
	var sum worker.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Len(t, sum.Sequences, 1)
}

func TestCompare_JSON(t *testing.T) {
	workspace(t)
	out, err := execute(t, append([]string{"compare", "--json"}, targetArgs...)...)
	require.NoError(t, err)

	var rows []format.ProfileRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, len(scoring.Profiles()))
	for i, name := range scoring.Profiles() {
		assert.Equal(t, name, rows[i].Profile)
		assert.Positive(t, rows[i].Sequences)
		assert.Contains(t, rows[i].Top, "black_king_bar")
	}
}

func TestCompare_Table(t *testing.T) {
	workspace(t)
	out, err := execute(t, append([]string{"compare", "--profile", "reuse"}, targetArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Profile")
	assert.Contains(t, out, "reuse")
	assert.Contains(t, out, "TOTAL")
	assert.NotContains(t, out, "efficiency")
}

func TestLogFileFlag(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "items", "--verbose", "--log-file", filepath.Join("logs", "chopshop.log"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "chopshop.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog loaded")
}
