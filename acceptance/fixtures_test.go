//go:build acceptance
// +build acceptance

package acceptance

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/playground/internal/fixturesite"
)

// siteDelay keeps the delayed pages of the local replica well below the default wait timeout.
const siteDelay = 300 * time.Millisecond

// TestFixtures bundles all commonly needed test fixtures.
type TestFixtures struct {
	BaseURL string
	Browser *LauncherFixture
}

// NewSiteURL starts the local replica of the playground, or returns PLAYGROUND_BASE_URL to run
// against another instance such as the public site.
func NewSiteURL(t *testing.T) string {
	t.Helper()

	if baseURL := os.Getenv("PLAYGROUND_BASE_URL"); baseURL != "" {
		return baseURL
	}

	handler, err := fixturesite.New(fixturesite.Options{Delay: siteDelay})
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

// WithTestFixtures creates all fixtures, registers cleanup with t.Cleanup(), and calls the test function.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures)) {
	t.Helper()

	baseURL := NewSiteURL(t)

	lf := NewLauncherFixture(t, baseURL)
	t.Cleanup(lf.Close)

	fn(t, &TestFixtures{
		BaseURL: baseURL,
		Browser: lf,
	})
}
