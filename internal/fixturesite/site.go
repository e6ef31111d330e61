// Package fixturesite serves a local replica of the UI Testing Playground pages the scenarios
// use. Delays of the real site are configurable so browser tests can run fast.
package fixturesite

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/samber/lo"
)

//go:embed pages/*.html pages/style.css
var pages embed.FS

// DefaultDelay replaces the server and client side delays of the real site (5 to 15 seconds).
const DefaultDelay = 500 * time.Millisecond

// AjaxText is the response of the AJAX endpoint.
const AjaxText = "Data loaded with AJAX get request."

// Page is a page of the site.
type Page struct {
	Name  string
	Title string
}

// Pages lists all pages in the order of the playground index.
var Pages = []Page{
	{Name: "dynamicid", Title: "Dynamic ID"},
	{Name: "classattr", Title: "Class Attribute"},
	{Name: "hiddenlayers", Title: "Hidden Layers"},
	{Name: "loaddelay", Title: "Load Delay"},
	{Name: "ajax", Title: "AJAX Data"},
	{Name: "clientdelay", Title: "Client Side Delay"},
	{Name: "click", Title: "Click"},
	{Name: "textinput", Title: "Text Input"},
	{Name: "scrollbars", Title: "Scrollbars"},
	{Name: "verifytext", Title: "Verify Text"},
	{Name: "progressbar", Title: "Progress Bar"},
	{Name: "visibility", Title: "Visibility"},
	{Name: "sampleapp", Title: "Sample App"},
	{Name: "mouseover", Title: "Mouse Over"},
	{Name: "overlapped", Title: "Overlapped Element"},
	{Name: "shadowdom", Title: "Shadow DOM"},
	{Name: "alerts", Title: "Alerts"},
	{Name: "animation", Title: "Animated Button"},
	{Name: "disabledinput", Title: "Disabled Input"},
}

// Options configures the site.
type Options struct {
	// Delay is used for the load delay, the AJAX response and client side timers.
	// Defaults to DefaultDelay; a negative value disables delays.
	Delay time.Duration
	// ProgressStep is the interval in which the progress bar advances by one percent.
	// Defaults to Delay / 25.
	ProgressStep time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type site struct {
	options Options
	logger  *slog.Logger
	style   string
	content map[string]templ.Component
}

// New creates the handler serving all pages.
func New(options Options) (http.Handler, error) {
	if options.Delay == 0 {
		options.Delay = DefaultDelay
	}
	if options.Delay < 0 {
		options.Delay = 0
	}
	if options.ProgressStep == 0 {
		options.ProgressStep = max(options.Delay/25, time.Millisecond)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	style, err := pages.ReadFile("pages/style.css")
	if err != nil {
		return nil, fmt.Errorf("reading style: %w", err)
	}

	s := &site{
		options: options,
		logger:  logger,
		style:   string(style),
		content: map[string]templ.Component{
			"index":     indexContent(Pages),
			"dynamicid": dynamicIDContent(),
		},
	}
	for _, p := range Pages {
		if _, ok := s.content[p.Name]; ok {
			continue
		}
		c, err := staticContent(pages, p.Name)
		if err != nil {
			return nil, fmt.Errorf("reading page %s: %w", p.Name, err)
		}
		s.content[p.Name] = c
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "index", "UI Test Automation Playground")
	})
	mux.HandleFunc("GET /ajaxdata", s.handleAjaxData)
	mux.HandleFunc("GET /{page}", s.handlePage)

	return mux, nil
}

func (s *site) handlePage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("page")
	page, ok := lo.Find(Pages, func(p Page) bool { return p.Name == name })
	if !ok {
		http.NotFound(w, r)
		return
	}
	if name == "loaddelay" && !s.sleep(r) {
		return
	}
	s.render(w, r, name, page.Title)
}

func (s *site) handleAjaxData(w http.ResponseWriter, r *http.Request) {
	if !s.sleep(r) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(AjaxText))
}

// sleep waits for the configured delay and returns false if the request was canceled first.
func (s *site) sleep(r *http.Request) bool {
	timer := time.NewTimer(s.options.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

func (s *site) render(w http.ResponseWriter, r *http.Request, name, title string) {
	page := layout(layoutProps{
		Title:       title,
		Style:       s.style,
		DelayMillis: s.options.Delay.Milliseconds(),
		StepMillis:  s.options.ProgressStep.Milliseconds(),
	}, s.content[name])

	templ.Handler(page, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		s.logger.ErrorContext(r.Context(), "Rendering page failed", "page", name, "error", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}
