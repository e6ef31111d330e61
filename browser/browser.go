// Package browser defines the session and element abstraction the scenarios drive, and a
// Playwright-backed implementation of it.
package browser

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/networkteam/playground/wait"
)

var (
	// ErrNoSuchElement is returned when a locator matches no element. It is transient for waits.
	ErrNoSuchElement = fmt.Errorf("no such element: %w", wait.ErrNotReady)
	// ErrNoAlert is returned when no dialog has been opened. It is transient for waits.
	ErrNoAlert = fmt.Errorf("no alert present: %w", wait.ErrNotReady)
	// ErrNoShadowRoot is returned when an element does not host an open shadow root.
	ErrNoShadowRoot = errors.New("element has no open shadow root")
	// ErrSessionClosed is returned when the page, context or browser went away. It is never retried.
	ErrSessionClosed = errors.New("session closed")
	// ErrStaleElement is returned when an element was detached from the DOM after it was found.
	ErrStaleElement = errors.New("stale element reference")
)

// Locator is a CSS selector. Lookups pierce open shadow roots.
type Locator string

func (l Locator) String() string {
	return string(l)
}

// Session is a live connection to one browser page. It is used by exactly one scenario and must
// not be used after Close.
type Session interface {
	// ID identifies the session in journals and logs.
	ID() uuid.UUID
	// Navigate loads the path relative to the base URL of the session.
	Navigate(path string) error
	// Find returns the first element matching the locator or ErrNoSuchElement.
	Find(locator Locator) (Element, error)
	// Alert returns the message of the oldest dialog that was opened and accepted, or ErrNoAlert.
	Alert() (string, error)
	// Close releases the session. Closing twice is a no-op.
	Close() error
}

// Element is a handle to a DOM element found through a Session.
type Element interface {
	// Click waits until the element is actionable and clicks it.
	Click() error
	// TryClick clicks the element and reports an intercepted or detached click as ClickBlocked
	// instead of an error.
	TryClick() (ClickOutcome, error)
	// Type appends text to the element like keyboard input.
	Type(text string) error
	// Clear empties an input element.
	Clear() error
	Hover() error
	ScrollIntoView() error
	// Text returns the rendered text of the element.
	Text() (string, error)
	// Attribute returns the value of an attribute and whether it is present.
	Attribute(name string) (string, bool, error)
	// Value returns the current value of an input element.
	Value() (string, error)
	Visible() (bool, error)
	Enabled() (bool, error)
	// Find searches the subtree of the element.
	Find(locator Locator) (Element, error)
	// ShadowRoot returns a scope for searching inside the open shadow root of the element.
	ShadowRoot() (Element, error)
}

// ClickOutcome is the result of Element.TryClick.
type ClickOutcome int

const (
	// ClickSucceeded means the click reached the element.
	ClickSucceeded ClickOutcome = iota
	// ClickBlocked means another element intercepted the click or the element was detached.
	ClickBlocked
)

func (o ClickOutcome) String() string {
	switch o {
	case ClickSucceeded:
		return "succeeded"
	case ClickBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("ClickOutcome(%d)", int(o))
	}
}
