package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/internal/hcl_adapter"
	"github.com/vk/beliefgrid/network"
)

func examplePath(name string) string {
	return filepath.Join("..", "..", "examples", name)
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{NetworkPaths: []string{"net.hcl"}})
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Strategy)
	assert.Equal(t, OutputText, cfg.Output)

	_, err = NewConfig(Config{})
	assert.ErrorContains(t, err, "at least one network path")

	_, err = NewConfig(Config{NetworkPaths: []string{"x"}, Strategy: "loopy"})
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = NewConfig(Config{NetworkPaths: []string{"x"}, Output: "xml"})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRun_TextReport(t *testing.T) {
	// --- Arrange ---
	a, out, logs := SetupAppTest(t, Config{NetworkPaths: []string{examplePath("bonus.hcl")}})

	// --- Act ---
	err := a.Run(t.Context())

	// --- Assert ---
	require.NoError(t, err)
	report := out.String()
	assert.Contains(t, report, "Evidence: D=true")
	assert.Contains(t, report, "Strategy: tree (2 sweeps, 4 pi / 4 lambda messages)")
	assert.Regexp(t, `A\s+0\.0843\d+\s+0\.9156\d+`, report)
	assert.Regexp(t, `D \*\s+1\.000000\s+0\.000000`, report)

	assert.Contains(t, logs.String(), "run_id="+a.RunID())
	assert.Contains(t, logs.String(), "Run finished.")
}

func TestRun_JSONReportWithEvidenceOverride(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{
		NetworkPaths: []string{examplePath("bonus.yaml")},
		Evidence:     map[string]string{"B": "false"},
		Strategy:     "fixpoint",
		Output:       OutputJSON,
	})
	require.NoError(t, a.Run(t.Context()))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, a.RunID(), rep.RunID)
	assert.Equal(t, "fixpoint", rep.Strategy)
	assert.Equal(t, []string{"true", "false"}, rep.Domain)
	assert.Equal(t, map[string]string{"D": "true", "B": "false"}, rep.Evidence)
	assert.Equal(t, 3, rep.Stats.Sweeps)
	require.Len(t, rep.Nodes, 5)

	a0 := rep.Nodes[0]
	assert.Equal(t, "A", a0.Name)
	assert.False(t, a0.Observed)
	assert.InDelta(t, 0.175053, a0.Distribution[0].Probability, 1e-5)
	assert.True(t, rep.Nodes[1].Observed)
}

func TestRun_Describe(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{
		NetworkPaths: []string{examplePath("bonus.hcl")},
		Describe:     true,
	}, hcl_adapter.NewLoader())
	require.NoError(t, a.Run(t.Context()))
	assert.Contains(t, out.String(), "| Bayesian Network |")
	assert.Contains(t, out.String(), "NODE")
}

func TestRun_Errors(t *testing.T) {
	t.Run("no definitions found", func(t *testing.T) {
		a, _, _ := SetupAppTest(t, Config{NetworkPaths: []string{t.TempDir()}})
		err := a.Run(t.Context())
		assert.ErrorContains(t, err, "failed to build network")
	})

	t.Run("inconsistent evidence", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "net.yaml"), []byte(`
domain: [on, off]
nodes:
  - {name: Switch, role: root, prior: {on: 0.5, off: 0.5}}
  - {name: Lamp, role: leaf}
dependencies:
  - child: Lamp
    parents: [Switch]
    rows:
      - {given: [on], probs: {on: 1, off: 0}}
      - {given: [off], probs: {on: 0, off: 1}}
evidence: {Switch: off, Lamp: on}
`), 0o644))

		a, out, _ := SetupAppTest(t, Config{NetworkPaths: []string{dir}})
		err := a.Run(t.Context())
		assert.ErrorIs(t, err, network.ErrInconsistentEvidence)
		assert.Empty(t, out.String())
	})

	t.Run("unknown evidence node", func(t *testing.T) {
		a, _, _ := SetupAppTest(t, Config{
			NetworkPaths: []string{examplePath("bonus.hcl")},
			Evidence:     map[string]string{"Z": "true"},
		})
		err := a.Run(t.Context())
		assert.ErrorIs(t, err, network.ErrQuery)
	})

	t.Run("conflicting formats", func(t *testing.T) {
		// The HCL and YAML examples define the same nodes.
		a, _, _ := SetupAppTest(t, Config{NetworkPaths: []string{examplePath("bonus.hcl"), examplePath("bonus.yaml")}})
		err := a.Run(t.Context())
		assert.ErrorContains(t, err, `node "A" is defined in both`)
	})
}
