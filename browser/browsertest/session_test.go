package browsertest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/browser/browsertest"
	"github.com/networkteam/playground/wait"
)

func TestSession_Navigate(t *testing.T) {
	s := browsertest.NewSession()
	s.Handle("/page", func(s *browsertest.Session) {
		s.Add("#button", browsertest.NewElement().WithText("Button"))
	})

	require.NoError(t, s.Navigate("/page"))
	first, err := s.Find("#button")
	require.NoError(t, err)

	require.NoError(t, s.Navigate("/page"))
	_, err = first.Text()
	assert.ErrorIs(t, err, browser.ErrStaleElement, "elements of the previous page are detached")

	second, err := s.Find("#button")
	require.NoError(t, err)
	text, err := second.Text()
	require.NoError(t, err)
	assert.Equal(t, "Button", text)

	assert.Equal(t, []string{"/page", "/page"}, s.Navigations())
	assert.Error(t, s.Navigate("/missing"))
}

func TestSession_Find_missing(t *testing.T) {
	s := browsertest.NewSession()

	_, err := s.Find("#missing")

	assert.ErrorIs(t, err, browser.ErrNoSuchElement)
	assert.ErrorIs(t, err, wait.ErrNotReady)
}

func TestSession_Alert(t *testing.T) {
	s := browsertest.NewSession()

	_, err := s.Alert()
	assert.ErrorIs(t, err, browser.ErrNoAlert)

	s.OpenAlert("first")
	s.OpenAlert("second")

	message, err := s.Alert()
	require.NoError(t, err)
	assert.Equal(t, "first", message)
	message, err = s.Alert()
	require.NoError(t, err)
	assert.Equal(t, "second", message)
}

func TestSession_Close(t *testing.T) {
	s := browsertest.NewSession()
	el := s.Add("#button", browsertest.NewElement())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 2, s.Closes())
	_, err := s.Find("#button")
	assert.ErrorIs(t, err, browser.ErrSessionClosed)
	assert.ErrorIs(t, el.Click(), browser.ErrSessionClosed)
	_, err = s.Alert()
	assert.ErrorIs(t, err, browser.ErrSessionClosed)
}

func TestElement_TryClick(t *testing.T) {
	s := browsertest.NewSession()
	el := s.Add("#button", browsertest.NewElement())

	outcome, err := el.TryClick()
	require.NoError(t, err)
	assert.Equal(t, browser.ClickSucceeded, outcome)

	el.SetBlocked(true)
	outcome, err = el.TryClick()
	require.NoError(t, err)
	assert.Equal(t, browser.ClickBlocked, outcome)
	assert.Equal(t, 1, el.Clicks())

	el.SetBlocked(false)
	el.SetVisible(false)
	_, err = el.TryClick()
	assert.ErrorIs(t, err, browsertest.ErrNotInteractable)
}

func TestElement_ShadowRoot(t *testing.T) {
	s := browsertest.NewSession()
	inner := browsertest.NewElement().WithText("inside")
	host := s.Add("my-host", browsertest.NewElement().WithShadowRoot(browsertest.NewElement().WithChild("span", inner)))
	plain := s.Add("div", browsertest.NewElement())

	root, err := host.ShadowRoot()
	require.NoError(t, err)
	span, err := root.Find("span")
	require.NoError(t, err)
	text, err := span.Text()
	require.NoError(t, err)
	assert.Equal(t, "inside", text)

	_, err = plain.ShadowRoot()
	assert.ErrorIs(t, err, browser.ErrNoShadowRoot)
}

func TestElement_Attribute(t *testing.T) {
	s := browsertest.NewSession()
	el := s.Add("#bar", browsertest.NewElement().WithAttr("aria-valuenow", "25"))

	value, ok, err := el.Attribute("aria-valuenow")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "25", value)

	_, ok, err = el.Attribute("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
