package scenario

import (
	"context"
	"errors"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/wait"
)

// VisibilityOf is satisfied with the element once it is present and visible.
func VisibilityOf(s browser.Session, locator browser.Locator) wait.Condition[browser.Element] {
	return func(ctx context.Context) (browser.Element, error) {
		el, err := s.Find(locator)
		if err != nil {
			return nil, err
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			return nil, staleAsNotReady(err)
		}
		return el, nil
	}
}

// Clickable is satisfied with the element once it is visible and enabled.
func Clickable(s browser.Session, locator browser.Locator) wait.Condition[browser.Element] {
	visibility := VisibilityOf(s, locator)
	return func(ctx context.Context) (browser.Element, error) {
		el, err := visibility(ctx)
		if err != nil || el == nil {
			return nil, err
		}
		enabled, err := el.Enabled()
		if err != nil || !enabled {
			return nil, staleAsNotReady(err)
		}
		return el, nil
	}
}

// TextToBe is satisfied when the element is present and its text equals text.
func TextToBe(s browser.Session, locator browser.Locator, text string) wait.Condition[bool] {
	return func(ctx context.Context) (bool, error) {
		el, err := s.Find(locator)
		if err != nil {
			return false, err
		}
		actual, err := el.Text()
		if err != nil {
			return false, staleAsNotReady(err)
		}
		return actual == text, nil
	}
}

// InvisibilityOf is satisfied when the element is either absent from the DOM or not visible.
func InvisibilityOf(s browser.Session, locator browser.Locator) wait.Condition[bool] {
	return func(ctx context.Context) (bool, error) {
		el, err := s.Find(locator)
		if errors.Is(err, browser.ErrNoSuchElement) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		visible, err := el.Visible()
		if errors.Is(err, browser.ErrStaleElement) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return !visible, nil
	}
}

// EnabledState is satisfied with the element once it accepts input.
func EnabledState(s browser.Session, locator browser.Locator) wait.Condition[browser.Element] {
	return func(ctx context.Context) (browser.Element, error) {
		el, err := s.Find(locator)
		if err != nil {
			return nil, err
		}
		enabled, err := el.Enabled()
		if err != nil || !enabled {
			return nil, staleAsNotReady(err)
		}
		return el, nil
	}
}

// AttributeMatches is satisfied when the attribute of the element is present and matches.
func AttributeMatches(s browser.Session, locator browser.Locator, name string, match func(value string) bool) wait.Condition[bool] {
	return func(ctx context.Context) (bool, error) {
		el, err := s.Find(locator)
		if err != nil {
			return false, err
		}
		value, present, err := el.Attribute(name)
		if err != nil {
			return false, staleAsNotReady(err)
		}
		return present && match(value), nil
	}
}

// ValueMatches is satisfied when the value of an input element matches. The element is not looked up
// again, so a stale element fails the wait.
func ValueMatches(el browser.Element, match func(value string) bool) wait.Condition[string] {
	return func(ctx context.Context) (string, error) {
		value, err := el.Value()
		if err != nil {
			return "", err
		}
		if !match(value) {
			return "", nil
		}
		return value, nil
	}
}

// Dialog is a JavaScript dialog that was opened by the page.
type Dialog struct {
	Message string
}

// AlertPresent is satisfied with the oldest dialog opened by the page.
func AlertPresent(s browser.Session) wait.Condition[*Dialog] {
	return func(ctx context.Context) (*Dialog, error) {
		message, err := s.Alert()
		if err != nil {
			return nil, err
		}
		return &Dialog{Message: message}, nil
	}
}

// staleAsNotReady treats an element that was re-rendered between lookup and read as absent. Only for
// conditions that look the element up on every evaluation.
func staleAsNotReady(err error) error {
	if errors.Is(err, browser.ErrStaleElement) {
		return errors.Join(err, wait.ErrNotReady)
	}
	return err
}
