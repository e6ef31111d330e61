// Package playground runs browser scenarios against the UI Testing Playground.
//
//	instance, err := playground.New(playground.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer instance.Close()
//
//	report, err := instance.Run(ctx, "sample app")
package playground

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/collector"
	"github.com/networkteam/playground/runner"
	"github.com/networkteam/playground/scenario"
	"github.com/networkteam/playground/wait"
)

// DefaultBaseURL is the public UI Testing Playground.
const DefaultBaseURL = "https://uitestingplayground.com"

// ErrNoScenarios is returned by Run if no scenario matches the patterns.
var ErrNoScenarios = errors.New("no scenarios selected")

type Options struct {
	// BaseURL of the playground.
	// Default: DefaultBaseURL
	BaseURL string
	// Headless runs the browser without a window.
	// Default of DefaultOptions: true
	Headless bool
	// Install downloads the Playwright driver and Chromium on start.
	// Default: false
	Install bool

	// WaitTimeout bounds every explicit wait. Scenarios of slow pages may extend it.
	// Default: wait.DefaultTimeout
	WaitTimeout time.Duration
	// PollInterval is the time between two evaluations of a wait condition.
	// Default: wait.DefaultInterval
	PollInterval time.Duration
	// ClickTimeout is how long a click on an obstructed element is retried before it counts
	// as blocked.
	// Default: 2 seconds
	ClickTimeout time.Duration

	// Parallelism is the number of scenarios running in their own sessions at the same time.
	// Default: 1
	Parallelism int
	// JournalCapacity is the number of top-level events kept per scenario run.
	// Default: collector.DefaultJournalCapacity
	JournalCapacity int

	// Aggregator collects the events of all runs. Pass one to share it with a
	// collector.SlogHandler of Logger.
	// Default: nil, a new aggregator is created
	Aggregator *collector.Aggregator
	// Logger is used by all components.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns the options for a headless run against the public playground.
func DefaultOptions() Options {
	return Options{
		BaseURL:      DefaultBaseURL,
		Headless:     true,
		WaitTimeout:  wait.DefaultTimeout,
		PollInterval: wait.DefaultInterval,
		ClickTimeout: 2 * time.Second,
		Parallelism:  1,
	}
}

// Validate checks the options and returns all problems found.
func (o Options) Validate() error {
	var errs []error
	if o.BaseURL != "" {
		u, err := url.Parse(o.BaseURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("invalid base URL: %w", err))
		case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
			errs = append(errs, fmt.Errorf("base URL must be an absolute http(s) URL: %q", o.BaseURL))
		}
	}
	if o.WaitTimeout < 0 {
		errs = append(errs, fmt.Errorf("wait timeout must not be negative: %s", o.WaitTimeout))
	}
	if o.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("poll interval must not be negative: %s", o.PollInterval))
	}
	if o.ClickTimeout < 0 {
		errs = append(errs, fmt.Errorf("click timeout must not be negative: %s", o.ClickTimeout))
	}
	if o.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative: %d", o.Parallelism))
	}
	if o.JournalCapacity < 0 {
		errs = append(errs, fmt.Errorf("journal capacity must not be negative: %d", o.JournalCapacity))
	}
	return errors.Join(errs...)
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	if o.WaitTimeout == 0 {
		o.WaitTimeout = wait.DefaultTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = wait.DefaultInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Instance owns a browser and runs scenarios in sessions of it.
type Instance struct {
	options    Options
	aggregator *collector.Aggregator
	runner     *runner.Runner
	closer     func() error
	ownsAgg    bool
}

// New validates the options and launches the browser.
func New(options Options) (*Instance, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	options.applyDefaults()

	aggregator, owned := options.Aggregator, false
	if aggregator == nil {
		aggregator, owned = collector.NewAggregator(), true
	}

	launcher, err := browser.Launch(browser.LauncherOptions{
		BaseURL:             options.BaseURL,
		Headless:            options.Headless,
		BlockedClickTimeout: options.ClickTimeout,
		Install:             options.Install,
		Aggregator:          aggregator,
		Logger:              options.Logger,
	})
	if err != nil {
		if owned {
			aggregator.Close()
		}
		return nil, err
	}

	i := newInstance(options, aggregator, launcher, launcher.Close)
	i.ownsAgg = owned
	return i, nil
}

func newInstance(options Options, aggregator *collector.Aggregator, factory runner.SessionFactory, closer func() error) *Instance {
	poller := wait.New(
		wait.WithTimeout(options.WaitTimeout),
		wait.WithInterval(options.PollInterval),
		wait.WithLogger(options.Logger),
	)
	return &Instance{
		options:    options,
		aggregator: aggregator,
		runner: runner.New(factory, runner.Options{
			Poller:          poller,
			Parallelism:     options.Parallelism,
			Aggregator:      aggregator,
			JournalCapacity: options.JournalCapacity,
			Logger:          options.Logger,
		}),
		closer: closer,
	}
}

// Run executes the scenarios selected by patterns (see scenario.Select) in name order.
func (i *Instance) Run(ctx context.Context, patterns ...string) (*runner.Report, error) {
	scenarios := scenario.Select(patterns...)
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScenarios, strings.Join(patterns, ", "))
	}

	i.options.Logger.InfoContext(ctx, "Running scenarios", "count", len(scenarios), "baseURL", i.options.BaseURL, "parallelism", max(i.options.Parallelism, 1))
	return i.runner.Run(ctx, scenarios), nil
}

// Subscribe returns a channel receiving the top-level events of all runs as they finish.
func (i *Instance) Subscribe(ctx context.Context) <-chan *collector.Event {
	return i.aggregator.Subscribe(ctx)
}

// Close shuts down the browser. An aggregator created by New is closed as well.
func (i *Instance) Close() error {
	err := i.closer()
	if i.ownsAgg {
		i.aggregator.Close()
	}
	return err
}
