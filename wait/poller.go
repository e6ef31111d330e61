// Package wait implements explicit waits: bounded polling of a condition against live browser state.
package wait

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
)

const (
	// DefaultTimeout bounds a wait when no timeout is configured.
	DefaultTimeout = 8 * time.Second
	// DefaultInterval is the pause between two evaluations of a condition.
	DefaultInterval = 500 * time.Millisecond
)

var (
	// ErrNotReady marks transient lookup failures. Conditions returning an error that wraps
	// ErrNotReady are retried until the deadline.
	ErrNotReady = errors.New("not ready")
	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("wait timed out")
)

// Condition is evaluated repeatedly until it returns a non-zero value.
// It may only perform reads against the session.
type Condition[T comparable] func(ctx context.Context) (T, error)

// Attempt describes a single evaluation of a condition.
type Attempt struct {
	Description string
	N           int
	Elapsed     time.Duration
	Satisfied   bool
	Err         error
}

// Poller holds the wait configuration. It carries no per-wait state and can be shared.
type Poller struct {
	timeout  time.Duration
	interval time.Duration
	ignored  []error
	observer func(ctx context.Context, attempt Attempt)
	logger   *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithTimeout sets the maximum duration of a wait.
// Default is DefaultTimeout if not specified.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Poller) {
		p.timeout = timeout
	}
}

// WithInterval sets the pause between evaluations.
// Default is DefaultInterval if not specified.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// Ignoring registers additional errors that count as "not yet satisfied".
func Ignoring(errs ...error) Option {
	return func(p *Poller) {
		p.ignored = append(slices.Clone(p.ignored), errs...)
	}
}

// WithObserver registers a function that is called after every evaluation.
func WithObserver(fn func(ctx context.Context, attempt Attempt)) Option {
	return func(p *Poller) {
		p.observer = fn
	}
}

// WithLogger sets the logger for wait diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// New creates a poller with the given options applied on top of the defaults.
func New(opts ...Option) *Poller {
	p := &Poller{
		timeout:  DefaultTimeout,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.normalize()
	return p
}

// With returns a copy of the poller with further options applied.
func (p *Poller) With(opts ...Option) *Poller {
	c := *p
	c.ignored = slices.Clone(p.ignored)
	for _, opt := range opts {
		opt(&c)
	}
	c.normalize()
	return &c
}

func (p *Poller) normalize() {
	if p.timeout < 0 {
		p.timeout = 0
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
}

// Timeout returns the configured maximum wait duration.
func (p *Poller) Timeout() time.Duration {
	return p.timeout
}

// Interval returns the configured pause between evaluations.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) transient(err error) bool {
	if errors.Is(err, ErrNotReady) {
		return true
	}
	return lo.ContainsBy(p.ignored, func(target error) bool {
		return errors.Is(err, target)
	})
}

// Until evaluates cond until it yields a non-zero value, the timeout of p elapses or ctx is done.
//
// Transient errors (see ErrNotReady and Ignoring) are swallowed and retried. Any other error is
// returned immediately and unmodified. On deadline expiry a *TimeoutError is returned.
func Until[T comparable](ctx context.Context, p *Poller, description string, cond Condition[T]) (T, error) {
	var zero T

	start := time.Now()
	deadline := start.Add(p.timeout)

	var lastErr error
	for n := 1; ; n++ {
		value, err := cond(ctx)
		elapsed := time.Since(start)

		satisfied := err == nil && lo.IsNotEmpty(value)
		p.observe(ctx, Attempt{
			Description: description,
			N:           n,
			Elapsed:     elapsed,
			Satisfied:   satisfied,
			Err:         err,
		})

		if satisfied {
			return value, nil
		}
		if err != nil {
			if !p.transient(err) {
				return zero, err
			}
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.logger.DebugContext(ctx, "Wait timed out", "description", description, "attempts", n, "elapsed", elapsed)
			return zero, &TimeoutError{
				Description: description,
				Timeout:     p.timeout,
				Elapsed:     elapsed,
				Attempts:    n,
				LastErr:     lastErr,
			}
		}

		timer := time.NewTimer(min(p.interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// For waits until the boolean predicate returns true.
func For(ctx context.Context, p *Poller, description string, predicate Condition[bool]) error {
	_, err := Until(ctx, p, description, predicate)
	return err
}

func (p *Poller) observe(ctx context.Context, attempt Attempt) {
	if p.observer != nil {
		p.observer(ctx, attempt)
	}
}

// TimeoutError is returned when a condition was not satisfied before the deadline.
type TimeoutError struct {
	Description string
	Timeout     time.Duration
	Elapsed     time.Duration
	Attempts    int
	// LastErr is the last transient error seen, if any.
	LastErr error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s (%d attempts)", e.Timeout, e.Description, e.Attempts)
	if e.LastErr != nil {
		msg += ": last error: " + e.LastErr.Error()
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
