package scenario

import (
	"context"
	"log/slog"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/collector"
	"github.com/networkteam/playground/wait"
)

// Env is what a scenario works with: one session, the poller for explicit waits and optional
// instrumentation.
type Env struct {
	Session browser.Session
	Poller  *wait.Poller
	// Aggregator groups the attempts of each wait into one journal event. Optional.
	Aggregator *collector.Aggregator
	Logger     *slog.Logger
}

// Navigate loads a page of the playground.
func (e *Env) Navigate(path string) error {
	return e.Session.Navigate(path)
}

// Find looks an element up without waiting.
func (e *Env) Find(locator browser.Locator) (browser.Element, error) {
	return e.Session.Find(locator)
}

// Click finds an element and clicks it without waiting for it to appear.
func (e *Env) Click(locator browser.Locator) error {
	el, err := e.Session.Find(locator)
	if err != nil {
		return err
	}
	return el.Click()
}

// Type finds an element and types text into it.
func (e *Env) Type(locator browser.Locator, text string) error {
	el, err := e.Session.Find(locator)
	if err != nil {
		return err
	}
	return el.Type(text)
}

// Text finds an element and returns its rendered text.
func (e *Env) Text(locator browser.Locator) (string, error) {
	el, err := e.Session.Find(locator)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Await runs an explicit wait with the poller of env and records it as one journal event.
func Await[T comparable](ctx context.Context, env *Env, description string, cond wait.Condition[T]) (T, error) {
	var attempts int
	counted := func(ctx context.Context) (T, error) {
		attempts++
		return cond(ctx)
	}

	if env.Aggregator != nil {
		ctx = env.Aggregator.StartEvent(ctx)
	}

	value, err := wait.Until(ctx, env.Poller, description, counted)

	if env.Aggregator != nil {
		env.Aggregator.EndEvent(ctx, collector.Wait{
			Description: description,
			Attempts:    attempts,
			Err:         collector.ErrString(err),
		})
	}
	if err != nil {
		env.logger().DebugContext(ctx, "Wait failed", "description", description, "attempts", attempts, "error", err)
	}
	return value, err
}
