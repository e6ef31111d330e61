package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/networkteam/playground"
	"github.com/networkteam/playground/collector"
	"github.com/networkteam/playground/internal/fixturesite"
	"github.com/networkteam/playground/runner"
	"github.com/networkteam/playground/scenario"
	"github.com/networkteam/playground/wait"
)

type runFlags struct {
	baseURL      string
	headless     bool
	install      bool
	timeout      time.Duration
	interval     time.Duration
	clickTimeout time.Duration
	parallel     int
	journalTail  int
	json         bool
	color        bool
	follow       bool
	local        bool
	localDelay   time.Duration
}

func newRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [pattern...]",
		Short: "Run scenarios, all or those matching a pattern",
		Long: `Run scenarios in a fresh browser session each.

A pattern selects scenarios by a case-insensitive substring of the name or the page path,
or by a glob on the slug (e.g. "05-*"). Without patterns all scenarios are run.

The exit code is 1 if a scenario failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, global, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.baseURL, "base-url", envString("PLAYGROUND_BASE_URL", playground.DefaultBaseURL), "base URL of the playground (env PLAYGROUND_BASE_URL)")
	f.BoolVar(&flags.headless, "headless", envBool("HEADLESS", true), "run the browser without a window (env HEADLESS)")
	f.BoolVar(&flags.install, "install", false, "install the Playwright driver and Chromium before running")
	f.DurationVar(&flags.timeout, "timeout", envDuration("PLAYGROUND_WAIT_TIMEOUT", wait.DefaultTimeout), "timeout of explicit waits (env PLAYGROUND_WAIT_TIMEOUT)")
	f.DurationVar(&flags.interval, "interval", wait.DefaultInterval, "poll interval of explicit waits")
	f.DurationVar(&flags.clickTimeout, "click-timeout", 2*time.Second, "time until a click on an obstructed element counts as blocked")
	f.IntVarP(&flags.parallel, "parallel", "p", 1, "number of scenarios running at the same time")
	f.IntVar(&flags.journalTail, "journal", 10, "number of journal events printed for a failed scenario")
	f.BoolVar(&flags.json, "json", false, "write the report as JSON")
	f.BoolVar(&flags.color, "color", isatty.IsTerminal(os.Stdout.Fd()), "highlight journals of failed scenarios")
	f.BoolVar(&flags.follow, "follow", false, "stream journal events to stderr while running")
	f.BoolVar(&flags.local, "local", false, "serve the bundled replica of the playground and run against it")
	f.DurationVar(&flags.localDelay, "local-delay", fixturesite.DefaultDelay, "delays of the local replica")

	return cmd
}

func runScenarios(cmd *cobra.Command, global *globalFlags, flags *runFlags, patterns []string) error {
	if len(scenario.Select(patterns...)) == 0 {
		return fmt.Errorf("%w: %s", playground.ErrNoScenarios, strings.Join(patterns, ", "))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	logger := newLogger(cmd.ErrOrStderr(), global.verbose, aggregator)

	baseURL := flags.baseURL
	if flags.local {
		url, shutdown, err := serveLocal(flags.localDelay, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = url
	}

	instance, err := playground.New(playground.Options{
		BaseURL:      baseURL,
		Headless:     flags.headless,
		Install:      flags.install,
		WaitTimeout:  flags.timeout,
		PollInterval: flags.interval,
		ClickTimeout: flags.clickTimeout,
		Parallelism:  flags.parallel,
		Aggregator:   aggregator,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := instance.Close(); err != nil {
			logger.Warn("Closing browser failed", "error", err)
		}
	}()

	if flags.follow {
		go follow(instance.Subscribe(ctx), cmd.ErrOrStderr())
	}

	report, err := instance.Run(ctx, patterns...)
	if err != nil {
		return err
	}

	if flags.json {
		err = runner.WriteJSON(cmd.OutOrStdout(), report)
	} else {
		err = runner.WriteText(cmd.OutOrStdout(), report, runner.WriteOptions{
			Color:       flags.color,
			JournalTail: flags.journalTail,
		})
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if !report.Passed() {
		return errScenariosFailed
	}
	return nil
}

// follow writes every finished top-level event as a JSON line.
func follow(events <-chan *collector.Event, w io.Writer) {
	enc := json.NewEncoder(w)
	for evt := range events {
		entries := runner.JournalEntries([]*collector.Event{evt})
		_ = enc.Encode(struct {
			RunID string `json:"runId"`
			runner.JournalEntry
		}{
			RunID:        evt.RunID.String(),
			JournalEntry: entries[0],
		})
	}
}

func serveLocal(delay time.Duration, logger *slog.Logger) (string, func(), error) {
	handler, err := fixturesite.New(fixturesite.Options{Delay: delay, Logger: logger})
	if err != nil {
		return "", nil, err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listening for local playground: %w", err)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Local playground stopped", "error", err)
		}
	}()

	url := "http://" + ln.Addr().String()
	logger.Info("Serving local playground", "url", url)

	return url, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
