package browsertest

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/networkteam/playground/browser"
)

// ErrNotInteractable is returned by Click and Type on hidden or disabled elements.
var ErrNotInteractable = errors.New("element not interactable")

// ErrClickIntercepted is returned by Click on an element that is covered by another element.
var ErrClickIntercepted = errors.New("click intercepted")

// Element is a fake DOM element. Builders (With*, Hidden, ...) return the element for chaining,
// setters can be used while a test is running.
type Element struct {
	session *Session

	mu       sync.Mutex
	text     string
	value    string
	attrs    map[string]string
	visible  bool
	enabled  bool
	blocked  bool
	detached bool
	children map[browser.Locator]*Element
	shadow   *Element

	onClick func(el *Element)
	onHover func(el *Element)
	onType  func(el *Element, text string)

	clicks   int
	hovers   int
	scrolled bool
}

var _ browser.Element = (*Element)(nil)

// NewElement creates a visible, enabled element.
func NewElement() *Element {
	return &Element{
		attrs:    make(map[string]string),
		children: make(map[browser.Locator]*Element),
		visible:  true,
		enabled:  true,
	}
}

func (e *Element) adopt(s *Session) {
	e.mu.Lock()
	e.session = s
	children := make([]*Element, 0, len(e.children)+1)
	for _, child := range e.children {
		children = append(children, child)
	}
	if e.shadow != nil {
		children = append(children, e.shadow)
	}
	e.mu.Unlock()

	for _, child := range children {
		child.adopt(s)
	}
}

func (e *Element) detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = true
}

// WithText sets the rendered text.
func (e *Element) WithText(text string) *Element {
	e.SetText(text)
	return e
}

// WithValue sets the input value.
func (e *Element) WithValue(value string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	return e
}

// WithAttr sets an attribute.
func (e *Element) WithAttr(name, value string) *Element {
	e.SetAttr(name, value)
	return e
}

// Hidden makes the element invisible.
func (e *Element) Hidden() *Element {
	e.SetVisible(false)
	return e
}

// Disabled makes the element reject input.
func (e *Element) Disabled() *Element {
	e.SetEnabled(false)
	return e
}

// WithChild adds an element to the subtree.
func (e *Element) WithChild(locator browser.Locator, child *Element) *Element {
	e.mu.Lock()
	e.children[locator] = child
	s := e.session
	e.mu.Unlock()
	if s != nil {
		child.adopt(s)
	}
	return e
}

// WithShadowRoot attaches an open shadow root.
func (e *Element) WithShadowRoot(root *Element) *Element {
	e.mu.Lock()
	e.shadow = root
	s := e.session
	e.mu.Unlock()
	if s != nil {
		root.adopt(s)
	}
	return e
}

// OnClick registers a handler that runs after every successful click.
func (e *Element) OnClick(fn func(el *Element)) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick = fn
	return e
}

// OnHover registers a handler that runs after every hover.
func (e *Element) OnHover(fn func(el *Element)) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onHover = fn
	return e
}

// OnType registers a handler that runs after text was typed.
func (e *Element) OnType(fn func(el *Element, text string)) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onType = fn
	return e
}

// SetText changes the rendered text.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// SetAttr changes an attribute.
func (e *Element) SetAttr(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
}

// SetVisible changes the visibility.
func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
}

// SetEnabled changes whether the element accepts input.
func (e *Element) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
}

// SetBlocked makes clicks on the element be intercepted.
func (e *Element) SetBlocked(blocked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocked = blocked
}

// Clicks returns the number of successful clicks.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Hovers returns the number of hovers.
func (e *Element) Hovers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hovers
}

// Scrolled reports whether ScrollIntoView was called.
func (e *Element) Scrolled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolled
}

// Attrs returns a copy of all attributes.
func (e *Element) Attrs() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.attrs)
}

func (e *Element) checkAlive() error {
	e.mu.Lock()
	s := e.session
	detached := e.detached
	e.mu.Unlock()

	if s != nil {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return browser.ErrSessionClosed
		}
	}
	if detached {
		return browser.ErrStaleElement
	}
	return nil
}

func (e *Element) Click() error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	e.mu.Lock()
	switch {
	case !e.visible || !e.enabled:
		e.mu.Unlock()
		return ErrNotInteractable
	case e.blocked:
		e.mu.Unlock()
		return ErrClickIntercepted
	}
	e.clicks++
	onClick := e.onClick
	e.mu.Unlock()

	if onClick != nil {
		onClick(e)
	}
	return nil
}

func (e *Element) TryClick() (browser.ClickOutcome, error) {
	err := e.Click()
	switch {
	case err == nil:
		return browser.ClickSucceeded, nil
	case errors.Is(err, ErrClickIntercepted), errors.Is(err, browser.ErrStaleElement):
		return browser.ClickBlocked, nil
	}
	return browser.ClickSucceeded, err
}

func (e *Element) Type(text string) error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	e.mu.Lock()
	if !e.visible || !e.enabled {
		e.mu.Unlock()
		return ErrNotInteractable
	}
	e.value += text
	onType := e.onType
	e.mu.Unlock()

	if onType != nil {
		onType(e, text)
	}
	return nil
}

func (e *Element) Clear() error {
	if err := e.checkAlive(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = ""
	return nil
}

func (e *Element) Hover() error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	e.mu.Lock()
	e.hovers++
	onHover := e.onHover
	e.mu.Unlock()

	if onHover != nil {
		onHover(e)
	}
	return nil
}

func (e *Element) ScrollIntoView() error {
	if err := e.checkAlive(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolled = true
	return nil
}

func (e *Element) Text() (string, error) {
	if err := e.checkAlive(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.visible {
		return "", nil
	}
	return e.text, nil
}

func (e *Element) Attribute(name string) (string, bool, error) {
	if err := e.checkAlive(); err != nil {
		return "", false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.attrs[name]
	return value, ok, nil
}

func (e *Element) Value() (string, error) {
	if err := e.checkAlive(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, nil
}

func (e *Element) Visible() (bool, error) {
	if err := e.checkAlive(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible, nil
}

func (e *Element) Enabled() (bool, error) {
	if err := e.checkAlive(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled, nil
}

func (e *Element) Find(locator browser.Locator) (browser.Element, error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	child, ok := e.children[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, locator)
	}
	return child, nil
}

func (e *Element) ShadowRoot() (browser.Element, error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shadow == nil {
		return nil, browser.ErrNoShadowRoot
	}
	return e.shadow, nil
}
