// Package scenario contains the browser scenarios run against the UI Testing Playground. Every
// scenario navigates to one page, drives it through a browser.Session and asserts on the final
// DOM state.
package scenario

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Scenario is a single scripted interaction with one page of the playground.
type Scenario struct {
	// Name is unique and orders the scenarios, e.g. "01 Sample App login".
	Name string
	// Path is the page the scenario starts on.
	Path string
	// WaitTimeout overrides the poller timeout for pages that are slower than the default allows.
	WaitTimeout time.Duration
	Run         func(ctx context.Context, env *Env) error
}

// Slug is the scenario name in lowercase with dashes, e.g. "01-sample-app-login".
func (s Scenario) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(s.Name)), "-")
}

var registry = []Scenario{
	{Name: "01 Sample App login", Path: "/sampleapp", Run: sampleAppLogin},
	{Name: "02 Sample App logout", Path: "/sampleapp", Run: sampleAppLogout},
	{Name: "03 Dynamic ID", Path: "/dynamicid", Run: dynamicID},
	{Name: "04 Class Attribute", Path: "/classattr", Run: classAttribute},
	{Name: "05 Hidden Layers", Path: "/hiddenlayers", Run: hiddenLayers},
	{Name: "06 Load Delay", Path: "/loaddelay", Run: loadDelay},
	{Name: "07 AJAX Data", Path: "/ajax", WaitTimeout: 20 * time.Second, Run: ajaxData},
	{Name: "08 Text Input", Path: "/textinput", Run: textInput},
	{Name: "09 Scrollbars", Path: "/scrollbars", Run: scrollbars},
	{Name: "10 Overlapped Element", Path: "/overlapped", Run: overlapped},
	{Name: "11 Visibility", Path: "/visibility", Run: visibility},
	{Name: "12 Click", Path: "/click", Run: click},
	{Name: "13 Progress Bar", Path: "/progressbar", WaitTimeout: 30 * time.Second, Run: progressBar},
	{Name: "14 Mouse Over", Path: "/mouseover", Run: mouseOver},
	{Name: "15 Shadow DOM", Path: "/shadowdom", Run: shadowDOM},
	{Name: "16 Client Side Delay", Path: "/clientdelay", WaitTimeout: 20 * time.Second, Run: clientSideDelay},
	{Name: "17 Verify Text", Path: "/verifytext", Run: verifyText},
	{Name: "18 Disabled Input", Path: "/disabledinput", Run: disabledInput},
	{Name: "19 Animated Button", Path: "/animation", Run: animatedButton},
	{Name: "20 Alerts", Path: "/alerts", Run: alerts},
}

// All returns every scenario ordered by name.
func All() []Scenario {
	all := slices.Clone(registry)
	slices.SortFunc(all, func(a, b Scenario) int {
		return strings.Compare(a.Name, b.Name)
	})
	return all
}

// Select returns the scenarios matching any of the patterns. A pattern matches if it is a
// case-insensitive substring of the name, the slug or the path, or a path.Match glob on the slug.
// No patterns select all scenarios.
func Select(patterns ...string) []Scenario {
	all := All()
	if len(patterns) == 0 {
		return all
	}
	return lo.Filter(all, func(s Scenario, _ int) bool {
		return lo.SomeBy(patterns, func(p string) bool {
			return s.Matches(p)
		})
	})
}

// Matches reports whether pattern selects the scenario.
func (s Scenario) Matches(pattern string) bool {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if p == "" {
		return false
	}
	if ok, _ := path.Match(p, s.Slug()); ok {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), p) ||
		strings.Contains(s.Slug(), p) ||
		strings.Contains(s.Path, p)
}

// Execute navigates to the page of the scenario and runs it.
func (s Scenario) Execute(ctx context.Context, env *Env) error {
	if err := env.Navigate(s.Path); err != nil {
		return fmt.Errorf("opening %s: %w", s.Path, err)
	}
	return s.Run(ctx, env)
}
