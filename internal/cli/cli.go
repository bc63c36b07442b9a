package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/beliefgrid/internal/app"
	"github.com/vk/beliefgrid/network"
)

// Exit codes reported by the beliefgrid binary.
const (
	ExitRuntime      = 1
	ExitUsage        = 2
	ExitInconsistent = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, network.ErrInconsistentEvidence):
		return ExitInconsistent
	default:
		return ExitRuntime
	}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// env supplies defaults for flags that were not given.
func Parse(args []string, output io.Writer, env Env) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("beliefgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
beliefgrid - Exact belief propagation over discrete Bayesian polytrees.

Usage:
  beliefgrid [options] [NETWORK_PATH...]

Arguments:
  NETWORK_PATH
    Path to a .hcl/.yaml file or a directory containing such files.

Environment:
  BELIEFGRID_LOG_LEVEL, BELIEFGRID_LOG_FORMAT, BELIEFGRID_STRATEGY
    Defaults for the matching flags. Also read from the file named by
    BELIEFGRID_ENV (default .env).

Options:
`)
		flagSet.PrintDefaults()
	}

	evidence := evidenceFlag{}
	networkFlag := flagSet.String("network", "", "Path to the network file or directory.")
	nFlag := flagSet.String("n", "", "Path to the network file or directory (shorthand).")
	flagSet.Var(evidence, "evidence", "Observed value as name=value. Repeatable; overrides evidence from files.")
	strategyFlag := flagSet.String("strategy", env.get(EnvStrategy, "tree"), "Message scheduling strategy. Options: 'tree' or 'fixpoint'.")
	outputFlag := flagSet.String("output", app.OutputText, "Report format. Options: 'text' or 'json'.")
	describeFlag := flagSet.Bool("describe", false, "Print the network structure before the report.")
	logFormatFlag := flagSet.String("log-format", env.get(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.get(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	for _, p := range []string{*networkFlag, *nFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Network paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No network path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		NetworkPaths: paths,
		Evidence:     evidence,
		Strategy:     strings.ToLower(*strategyFlag),
		Output:       strings.ToLower(*outputFlag),
		Describe:     *describeFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
