package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The returned
// buffers capture the report and the debug-level logs respectively.
func SetupAppTest(t *testing.T, cfg Config, loaders ...config.Loader) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	testApp := NewApp(out, logs, validated, loaders...)

	t.Cleanup(func() {
		if os.Getenv("BELIEFGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return testApp, out, logs
}
