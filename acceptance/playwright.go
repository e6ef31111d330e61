//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/collector"
)

// LauncherFixture manages a Chromium browser for tests.
type LauncherFixture struct {
	Launcher   *browser.Launcher
	Aggregator *collector.Aggregator
}

// NewLauncherFixture launches Chromium with sessions navigating relative to baseURL.
// Set HEADLESS=false environment variable to run with visible browser for debugging.
func NewLauncherFixture(t *testing.T, baseURL string) *LauncherFixture {
	t.Helper()

	aggregator := collector.NewAggregator()

	launcher, err := browser.Launch(browser.LauncherOptions{
		BaseURL:    baseURL,
		Headless:   os.Getenv("HEADLESS") != "false",
		Aggregator: aggregator,
	})
	if err != nil {
		aggregator.Close()
	}
	require.NoError(t, err, "failed to launch browser")

	return &LauncherFixture{Launcher: launcher, Aggregator: aggregator}
}

// NewSession opens an isolated session that is closed when the test ends.
func (lf *LauncherFixture) NewSession(t *testing.T) browser.Session {
	t.Helper()
	s, err := lf.Launcher.NewSession(context.Background())
	require.NoError(t, err, "failed to open session")
	t.Cleanup(func() { s.Close() })
	return s
}

// Close releases the browser and the aggregator.
func (lf *LauncherFixture) Close() {
	lf.Launcher.Close()
	lf.Aggregator.Close()
}
