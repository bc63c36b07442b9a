package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/internal/cli"
)

func TestRun_Example(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-n", filepath.Join("..", "..", "examples", "bonus.hcl"), "-log-level", "debug"}
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Evidence: D=true")
	assert.Regexp(t, `C\s+0\.7156\d+`, out.String())
	assert.Contains(t, logs.String(), "Run finished.")
}

func TestRun_ParseFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		node "A" {
			role = "root"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	// --- Act ---
	runErr := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "failed to parse")
	assert.Equal(t, cli.ExitRuntime, cli.ExitCode(runErr))
}

func TestRun_InconsistentEvidenceExitCode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "net.hcl"), []byte(`
domain = ["on", "off"]

node "Switch" {
  role  = "root"
  prior = { on = 0.5, off = 0.5 }
}

node "Lamp" {
  role = "leaf"
}

dependency "Lamp" {
  parents = ["Switch"]
  row {
    given = ["on"]
    probs = { on = 1, off = 0 }
  }
  row {
    given = ["off"]
    probs = { on = 0, off = 1 }
  }
}
`), 0o600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"-evidence", "Switch=off", "-evidence", "Lamp=on", dir})
	require.Error(t, err)
	assert.Equal(t, cli.ExitInconsistent, cli.ExitCode(err))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_UsageError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}
