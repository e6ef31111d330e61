package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/networkteam/playground/collector"
)

var errScenariosFailed = errors.New("scenarios failed")

type globalFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	global := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "playground",
		Short:         "Run browser scenarios against the UI Testing Playground",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newRunCmd(global),
		newListCmd(),
		newServeCmd(global),
	)
	return cmd
}

// newLogger logs to stderr and, if aggregator is set, into the journal of the current scenario
// run.
func newLogger(stderr io.Writer, verbose bool, aggregator *collector.Aggregator) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	console := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	if aggregator == nil {
		return slog.New(console)
	}
	return slog.New(
		slogmulti.Fanout(
			// Collect debug logs into the scenario journals
			collector.NewSlogHandler(aggregator, collector.SlogHandlerOptions{
				Level: slog.LevelDebug,
			}),
			console,
		),
	)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring invalid duration", "env", key, "value", v, "error", err)
		return fallback
	}
	return d
}
