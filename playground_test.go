package playground

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/browser/browsertest"
	"github.com/networkteam/playground/collector"
	"github.com/networkteam/playground/runner"
)

func TestDefaultOptions(t *testing.T) {
	options := DefaultOptions()

	require.NoError(t, options.Validate())
	assert.Equal(t, DefaultBaseURL, options.BaseURL)
	assert.True(t, options.Headless)
	assert.Equal(t, 8*time.Second, options.WaitTimeout)
	assert.Equal(t, 500*time.Millisecond, options.PollInterval)
	assert.Equal(t, 1, options.Parallelism)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(o *Options)
		wantErr string
	}{
		{name: "zero value", modify: func(o *Options) { *o = Options{} }},
		{name: "local base URL", modify: func(o *Options) { o.BaseURL = "http://127.0.0.1:8080" }},
		{name: "relative base URL", modify: func(o *Options) { o.BaseURL = "/sampleapp" }, wantErr: "absolute http(s) URL"},
		{name: "unsupported scheme", modify: func(o *Options) { o.BaseURL = "ftp://example.com" }, wantErr: "absolute http(s) URL"},
		{name: "negative timeout", modify: func(o *Options) { o.WaitTimeout = -time.Second }, wantErr: "wait timeout"},
		{name: "negative interval", modify: func(o *Options) { o.PollInterval = -time.Second }, wantErr: "poll interval"},
		{name: "negative click timeout", modify: func(o *Options) { o.ClickTimeout = -time.Second }, wantErr: "click timeout"},
		{name: "negative parallelism", modify: func(o *Options) { o.Parallelism = -1 }, wantErr: "parallelism"},
		{name: "negative journal capacity", modify: func(o *Options) { o.JournalCapacity = -1 }, wantErr: "journal capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := DefaultOptions()
			tt.modify(&options)

			err := options.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions_Validate_reportsAllProblems(t *testing.T) {
	options := Options{WaitTimeout: -1, Parallelism: -1}

	err := options.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait timeout")
	assert.Contains(t, err.Error(), "parallelism")
}

func TestNew_invalidOptions(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})

	assert.Error(t, err)
}

func newTestInstance(t *testing.T) (*Instance, *int) {
	t.Helper()

	options := DefaultOptions()
	options.PollInterval = 5 * time.Millisecond
	options.applyDefaults()

	factory := runner.SessionFactoryFunc(func(ctx context.Context) (browser.Session, error) {
		s := browsertest.NewSession()
		s.Handle("/dynamicid", func(s *browsertest.Session) {
			s.Add("button.btn.btn-primary", browsertest.NewElement())
		})
		return s, nil
	})

	closes := new(int)
	i := newInstance(options, collector.NewAggregator(), factory, func() error {
		*closes++
		return nil
	})
	i.ownsAgg = true
	return i, closes
}

func TestInstance_Run(t *testing.T) {
	i, closes := newTestInstance(t)

	events := i.Subscribe(context.Background())

	report, err := i.Run(context.Background(), "dynamic id")
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "03 Dynamic ID", report.Results[0].Scenario)
	assert.True(t, report.Passed())

	select {
	case evt := <-events:
		assert.Equal(t, report.Results[0].RunID, evt.RunID)
	case <-time.After(time.Second):
		t.Fatal("expected an event of the run")
	}

	require.NoError(t, i.Close())
	assert.Equal(t, 1, *closes)
}

func TestInstance_Run_noScenarios(t *testing.T) {
	i, _ := newTestInstance(t)
	defer i.Close()

	_, err := i.Run(context.Background(), "no such scenario")

	assert.True(t, errors.Is(err, ErrNoScenarios))
}

func TestInstance_Run_failedScenario(t *testing.T) {
	i, _ := newTestInstance(t)
	defer i.Close()

	report, err := i.Run(context.Background(), "sample app login")
	require.NoError(t, err)

	assert.False(t, report.Passed())
	assert.Contains(t, report.Results[0].Err.Error(), "404")
}
