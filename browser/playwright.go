package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/playground/collector"
)

// Viewport is the size of the browser window.
type Viewport struct {
	Width  int
	Height int
}

// LauncherOptions configures a Launcher.
type LauncherOptions struct {
	// BaseURL is prepended to paths passed to Session.Navigate.
	BaseURL string
	// Headless runs the browser without a window.
	Headless bool
	// Viewport of every session. Default: 1280x900
	Viewport Viewport
	// ActionTimeout bounds navigation and actionability checks of single actions.
	// Default: 30 seconds
	ActionTimeout time.Duration
	// BlockedClickTimeout is how long TryClick waits for an obstructed element before it
	// reports ClickBlocked. Default: 2 seconds
	BlockedClickTimeout time.Duration
	// Install downloads the Playwright driver and Chromium before launching.
	Install bool
	// Aggregator receives action, network and dialog events. Optional.
	Aggregator *collector.Aggregator
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o *LauncherOptions) applyDefaults() {
	if o.Viewport == (Viewport{}) {
		o.Viewport = Viewport{Width: 1280, Height: 900}
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = 30 * time.Second
	}
	if o.BlockedClickTimeout == 0 {
		o.BlockedClickTimeout = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Launcher owns the Playwright driver and a Chromium browser. Sessions created by the launcher
// are isolated browser contexts.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	options LauncherOptions
}

// Launch starts Playwright and a Chromium browser.
func Launch(options LauncherOptions) (*Launcher, error) {
	options.applyDefaults()

	if options.Install {
		err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
		if err != nil {
			return nil, fmt.Errorf("installing playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(options.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	options.Logger.Debug("Launched browser", "version", b.Version(), "headless", options.Headless)

	return &Launcher{pw: pw, browser: b, options: options}, nil
}

// NewSession opens a new isolated browser context with a single page.
// Events of the session are collected with ctx, which should carry the run ID.
func (l *Launcher) NewSession(ctx context.Context) (Session, error) {
	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(l.options.BaseURL),
		Viewport: &playwright.Size{
			Width:  l.options.Viewport.Width,
			Height: l.options.Viewport.Height,
		},
	})
	if err != nil {
		return nil, translateErr(fmt.Errorf("creating browser context: %w", err))
	}
	bctx.SetDefaultTimeout(float64(l.options.ActionTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, translateErr(fmt.Errorf("opening page: %w", err))
	}

	s := &session{
		id:                  uuid.Must(uuid.NewV7()),
		ctx:                 ctx,
		bctx:                bctx,
		page:                page,
		aggregator:          l.options.Aggregator,
		logger:              l.options.Logger,
		blockedClickTimeout: l.options.BlockedClickTimeout,
	}
	s.listen()

	s.logger.DebugContext(ctx, "Opened session", "session", s.id)

	return s, nil
}

// Close shuts down the browser and the Playwright driver.
func (l *Launcher) Close() error {
	return errors.Join(l.browser.Close(), l.pw.Stop())
}

type session struct {
	id   uuid.UUID
	ctx  context.Context
	bctx playwright.BrowserContext
	page playwright.Page

	aggregator          *collector.Aggregator
	logger              *slog.Logger
	blockedClickTimeout time.Duration

	mu      sync.Mutex
	alerts  []string
	closed  bool
	closeMu sync.Once
}

var _ Session = (*session)(nil)

func (s *session) listen() {
	s.page.OnDialog(func(dialog playwright.Dialog) {
		message := dialog.Message()

		s.mu.Lock()
		s.alerts = append(s.alerts, message)
		s.mu.Unlock()

		s.collect(collector.Dialog{Type: dialog.Type(), Message: message})

		// Handlers run on the dispatch goroutine of the driver connection, so answering must not block it
		go func() {
			if err := dialog.Accept(); err != nil {
				s.logger.WarnContext(s.ctx, "Accepting dialog failed", "session", s.id, "error", err)
			}
		}()
	})
	s.page.OnResponse(func(response playwright.Response) {
		s.collect(collector.Network{
			Method: response.Request().Method(),
			URL:    response.URL(),
			Status: response.Status(),
		})
	})
	s.page.OnClose(func(playwright.Page) {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})
}

func (s *session) ID() uuid.UUID {
	return s.id
}

func (s *session) Navigate(path string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	_, err := s.page.Goto(path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	err = translateErr(err)
	s.record("navigate", "", path, err)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", path, err)
	}
	return nil
}

func (s *session) Find(locator Locator) (Element, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	handle, err := s.page.QuerySelector(locator.String())
	return s.wrapHandle(locator, handle, err)
}

func (s *session) wrapHandle(locator Locator, handle playwright.ElementHandle, err error) (Element, error) {
	if err != nil {
		err = translateErr(err)
		s.record("find", locator.String(), "", err)
		return nil, fmt.Errorf("finding %s: %w", locator, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, locator)
	}
	return &element{s: s, handle: handle, locator: locator}, nil
}

func (s *session) Alert() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.alerts) == 0 {
		if s.closed {
			return "", ErrSessionClosed
		}
		return "", ErrNoAlert
	}
	message := s.alerts[0]
	s.alerts = s.alerts[1:]
	return message, nil
}

func (s *session) Close() error {
	var err error
	s.closeMu.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		err = s.bctx.Close()
		s.logger.DebugContext(s.ctx, "Closed session", "session", s.id)
	})
	return err
}

func (s *session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.page.IsClosed() {
		return ErrSessionClosed
	}
	return nil
}

func (s *session) record(name, locator, value string, err error) {
	s.collect(collector.Action{
		Session: s.id,
		Name:    name,
		Locator: locator,
		Value:   value,
		Err:     collector.ErrString(err),
	})
}

func (s *session) collect(data any) {
	if s.aggregator == nil {
		return
	}
	s.aggregator.CollectEvent(s.ctx, data)
}

type element struct {
	s       *session
	handle  playwright.ElementHandle
	locator Locator
}

var _ Element = (*element)(nil)

func (e *element) do(name, value string, fn func() error) error {
	if err := e.s.checkOpen(); err != nil {
		return err
	}
	err := translateErr(fn())
	e.s.record(name, e.locator.String(), value, err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", name, e.locator, err)
	}
	return nil
}

func (e *element) Click() error {
	return e.do("click", "", func() error {
		return e.handle.Click()
	})
}

func (e *element) TryClick() (ClickOutcome, error) {
	if err := e.s.checkOpen(); err != nil {
		return ClickSucceeded, err
	}
	err := translateErr(e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(float64(e.s.blockedClickTimeout.Milliseconds())),
	}))

	outcome := ClickSucceeded
	switch {
	case err == nil:
	case errors.Is(err, playwright.ErrTimeout), errors.Is(err, ErrStaleElement):
		outcome = ClickBlocked
		err = nil
	}
	e.s.record("try-click", e.locator.String(), outcome.String(), err)
	if err != nil {
		return outcome, fmt.Errorf("click %s: %w", e.locator, err)
	}
	return outcome, nil
}

func (e *element) Type(text string) error {
	return e.do("type", text, func() error {
		return e.handle.Type(text)
	})
}

func (e *element) Clear() error {
	return e.do("clear", "", func() error {
		return e.handle.Fill("")
	})
}

func (e *element) Hover() error {
	return e.do("hover", "", func() error {
		return e.handle.Hover()
	})
}

func (e *element) ScrollIntoView() error {
	return e.do("scroll-into-view", "", func() error {
		_, err := e.handle.Evaluate(`el => el.scrollIntoView({block: 'center'})`)
		return err
	})
}

func (e *element) Text() (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", e.locator, translateErr(err))
	}
	return text, nil
}

func (e *element) Attribute(name string) (string, bool, error) {
	value, err := e.handle.Evaluate(`(el, name) => el.getAttribute(name)`, name)
	if err != nil {
		return "", false, fmt.Errorf("reading attribute %s of %s: %w", name, e.locator, translateErr(err))
	}
	if value == nil {
		return "", false, nil
	}
	return fmt.Sprint(value), true, nil
}

func (e *element) Value() (string, error) {
	value, err := e.handle.InputValue()
	if err != nil {
		return "", fmt.Errorf("reading value of %s: %w", e.locator, translateErr(err))
	}
	return value, nil
}

func (e *element) Visible() (bool, error) {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false, fmt.Errorf("checking visibility of %s: %w", e.locator, translateErr(err))
	}
	return visible, nil
}

func (e *element) Enabled() (bool, error) {
	enabled, err := e.handle.IsEnabled()
	if err != nil {
		return false, fmt.Errorf("checking enabled state of %s: %w", e.locator, translateErr(err))
	}
	return enabled, nil
}

func (e *element) Find(locator Locator) (Element, error) {
	handle, err := e.handle.QuerySelector(locator.String())
	return e.s.wrapHandle(e.locator+" "+locator, handle, err)
}

func (e *element) ShadowRoot() (Element, error) {
	root, err := e.handle.EvaluateHandle(`el => el.shadowRoot`)
	if err != nil {
		return nil, fmt.Errorf("reading shadow root of %s: %w", e.locator, translateErr(err))
	}
	handle := root.AsElement()
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoShadowRoot, e.locator)
	}
	return &element{s: e.s, handle: handle, locator: e.locator + "::shadow-root"}, nil
}
