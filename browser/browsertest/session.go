// Package browsertest provides an in-memory browser.Session for unit tests of code that drives
// a browser.
package browsertest

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/networkteam/playground/browser"
)

// Session is a scriptable fake of browser.Session. Pages are set up by handlers registered with
// Handle that populate the element tree on navigation.
type Session struct {
	id uuid.UUID

	mu          sync.Mutex
	handlers    map[string]func(s *Session)
	elements    map[browser.Locator]*Element
	alerts      []string
	navigations []string
	closed      bool
	closes      int
}

var _ browser.Session = (*Session)(nil)

// NewSession creates an empty fake session.
func NewSession() *Session {
	return &Session{
		id:       uuid.Must(uuid.NewV7()),
		handlers: make(map[string]func(s *Session)),
		elements: make(map[browser.Locator]*Element),
	}
}

// Handle registers a page setup for a path. Navigating to the path clears all elements and calls
// setup.
func (s *Session) Handle(path string, setup func(s *Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[path] = setup
}

// Add places an element on the current page under the given locator.
func (s *Session) Add(locator browser.Locator, el *Element) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	el.adopt(s)
	s.elements[locator] = el
	return el
}

// Remove detaches the element of a locator from the page.
func (s *Session) Remove(locator browser.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elements[locator]; ok {
		el.detach()
		delete(s.elements, locator)
	}
}

// Element returns the element of a locator on the current page.
func (s *Session) Element(locator browser.Locator) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elements[locator]
}

// OpenAlert queues a dialog message as if the page called alert().
func (s *Session) OpenAlert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, message)
}

// Crash makes every further call fail with browser.ErrSessionClosed.
func (s *Session) Crash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Navigations returns the paths navigated to so far.
func (s *Session) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// Closes returns how often Close was called.
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Navigate(path string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return browser.ErrSessionClosed
	}
	setup, ok := s.handlers[path]
	for _, el := range s.elements {
		el.detach()
	}
	s.elements = make(map[browser.Locator]*Element)
	s.navigations = append(s.navigations, path)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("navigating to %s: 404 not found", path)
	}
	setup(s)
	return nil
}

func (s *Session) Find(locator browser.Locator) (browser.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, browser.ErrSessionClosed
	}
	el, ok := s.elements[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, locator)
	}
	return el, nil
}

func (s *Session) Alert() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", browser.ErrSessionClosed
	}
	if len(s.alerts) == 0 {
		return "", browser.ErrNoAlert
	}
	message := s.alerts[0]
	s.alerts = s.alerts[1:]
	return message, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.closes++
	return nil
}
