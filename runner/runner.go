// Package runner executes scenarios with one fresh browser session each and collects their
// results into a report.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/collector"
	"github.com/networkteam/playground/scenario"
	"github.com/networkteam/playground/wait"
)

// SessionFactory creates the browser session of a single scenario run.
type SessionFactory interface {
	NewSession(ctx context.Context) (browser.Session, error)
}

// SessionFactoryFunc adapts a function to a SessionFactory.
type SessionFactoryFunc func(ctx context.Context) (browser.Session, error)

func (f SessionFactoryFunc) NewSession(ctx context.Context) (browser.Session, error) {
	return f(ctx)
}

// Options configures a Runner.
type Options struct {
	// Poller is used for all explicit waits. Defaults to wait.New().
	Poller *wait.Poller
	// Parallelism is the number of scenarios running at the same time. Values below 1 run
	// sequentially.
	Parallelism int
	// Aggregator receives the events of all runs. If nil, results carry no journal.
	Aggregator *collector.Aggregator
	// JournalCapacity is the number of top-level events kept per run. Defaults to
	// collector.DefaultJournalCapacity.
	JournalCapacity int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Runner runs scenarios. It is safe for concurrent use.
type Runner struct {
	factory SessionFactory
	options Options
	poller  *wait.Poller
	logger  *slog.Logger
}

// New creates a runner acquiring sessions from factory.
func New(factory SessionFactory, options Options) *Runner {
	if options.Parallelism < 1 {
		options.Parallelism = 1
	}
	if options.JournalCapacity <= 0 {
		options.JournalCapacity = collector.DefaultJournalCapacity
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	poller := options.Poller
	if poller == nil {
		poller = wait.New(wait.WithLogger(logger))
	}
	if aggregator := options.Aggregator; aggregator != nil {
		poller = poller.With(wait.WithObserver(func(ctx context.Context, attempt wait.Attempt) {
			aggregator.CollectEvent(ctx, collector.Attempt{
				N:         attempt.N,
				Satisfied: attempt.Satisfied,
				Err:       collector.ErrString(attempt.Err),
			})
		}))
	}

	return &Runner{
		factory: factory,
		options: options,
		poller:  poller,
		logger:  logger,
	}
}

// Run executes the scenarios and returns a report with one result per scenario in the given
// order. A failing scenario does not stop the others. Scenarios not started before ctx is done
// fail with the context error.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) *Report {
	start := time.Now()
	results := make([]Result, len(scenarios))

	var g errgroup.Group
	g.SetLimit(r.options.Parallelism)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.RunOne(ctx, sc)
			// Failures are part of the result and must not stop the other scenarios
			return nil
		})
	}
	_ = g.Wait()

	return &Report{
		Results:  results,
		Duration: time.Since(start),
	}
}

// RunOne executes a single scenario in a fresh session. The session is closed on every exit
// path, including a panic of the scenario.
func (r *Runner) RunOne(ctx context.Context, sc scenario.Scenario) Result {
	runID := uuid.Must(uuid.NewV7())
	result := Result{
		Scenario: sc.Name,
		Path:     sc.Path,
		RunID:    runID,
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	ctx = collector.WithRunID(ctx, runID)

	var journal *collector.Journal
	if r.options.Aggregator != nil {
		journal = collector.NewJournal(runID, r.options.JournalCapacity)
		r.options.Aggregator.Register(journal)
	}

	logger := r.logger.With("scenario", sc.Name, "runID", runID)
	logger.DebugContext(ctx, "Starting scenario", "path", sc.Path)

	start := time.Now()
	result.Err = r.execute(ctx, sc, logger)
	result.Duration = time.Since(start)
	result.Passed = result.Err == nil

	if journal != nil {
		r.options.Aggregator.Unregister(runID)
		result.Events = journal.AllEvents()
	}

	if result.Passed {
		logger.InfoContext(ctx, "Scenario passed", "duration", result.Duration)
	} else {
		logger.WarnContext(ctx, "Scenario failed", "duration", result.Duration, "error", result.Err)
	}
	return result
}

func (r *Runner) execute(ctx context.Context, sc scenario.Scenario, logger *slog.Logger) (err error) {
	session, err := r.factory.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.WarnContext(ctx, "Closing session failed", "error", closeErr)
		}
	}()
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	poller := r.poller
	if sc.WaitTimeout > poller.Timeout() {
		poller = poller.With(wait.WithTimeout(sc.WaitTimeout))
	}

	env := &scenario.Env{
		Session:    session,
		Poller:     poller,
		Aggregator: r.options.Aggregator,
		Logger:     logger,
	}
	return sc.Execute(ctx, env)
}

// PanicError is the failure of a scenario that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("scenario panicked: %v", e.Value)
}
