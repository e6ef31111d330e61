package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gofrs/uuid"
	"github.com/samber/lo"

	"github.com/networkteam/playground/collector"
)

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string
	Path     string
	RunID    uuid.UUID
	Passed   bool
	Err      error
	Duration time.Duration
	// Events is the journal of the run, oldest first.
	Events []*collector.Event
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Scenario string         `json:"scenario"`
		Path     string         `json:"path"`
		RunID    uuid.UUID      `json:"runId"`
		Passed   bool           `json:"passed"`
		Error    string         `json:"error,omitempty"`
		Duration string         `json:"duration"`
		Journal  []JournalEntry `json:"journal,omitempty"`
	}{
		Scenario: r.Scenario,
		Path:     r.Path,
		RunID:    r.RunID,
		Passed:   r.Passed,
		Error:    collector.ErrString(r.Err),
		Duration: r.Duration.Round(time.Millisecond).String(),
		Journal:  JournalEntries(r.Events),
	})
}

// Report collects the results of a run.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Passed reports whether every scenario passed.
func (r *Report) Passed() bool {
	return lo.EveryBy(r.Results, func(res Result) bool { return res.Passed })
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	return lo.Reject(r.Results, func(res Result, _ int) bool { return res.Passed })
}

// WriteOptions configures WriteText.
type WriteOptions struct {
	// Color enables terminal colors for the journal of failed scenarios.
	Color bool
	// JournalTail is the number of journal events printed for a failed scenario. 0 prints none.
	JournalTail int
}

// WriteText writes a human readable summary of the report.
func WriteText(w io.Writer, report *Report, options WriteOptions) error {
	for _, res := range report.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s  %s (%s)\n", status, res.Scenario, res.Duration.Round(time.Millisecond)); err != nil {
			return err
		}
		if res.Passed {
			continue
		}
		if _, err := fmt.Fprintf(w, "      %v\n", res.Err); err != nil {
			return err
		}
		if action, ok := lastAction(res.Events); ok {
			if _, err := fmt.Fprintf(w, "      last action: %s\n", formatAction(action)); err != nil {
				return err
			}
		}
		if options.JournalTail > 0 && len(res.Events) > 0 {
			if err := writeJournal(w, lo.Subset(res.Events, -options.JournalTail, uint(options.JournalTail)), options.Color); err != nil {
				return err
			}
		}
	}

	failed := len(report.Failed())
	_, err := fmt.Fprintf(w, "\n%d scenarios, %d passed, %d failed in %s\n",
		len(report.Results), len(report.Results)-failed, failed, report.Duration.Round(time.Millisecond))
	return err
}

// WriteJSON writes the report as indented JSON including the journals.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Passed   bool     `json:"passed"`
		Duration string   `json:"duration"`
		Results  []Result `json:"results"`
	}{
		Passed:   report.Passed(),
		Duration: report.Duration.Round(time.Millisecond).String(),
		Results:  report.Results,
	})
}

// lastAction finds the most recent browser action in events and their children.
func lastAction(events []*collector.Event) (collector.Action, bool) {
	var (
		last  collector.Action
		found bool
	)
	for _, evt := range events {
		for _, e := range evt.Visit() {
			if action, ok := e.Data.(collector.Action); ok {
				last, found = action, true
			}
		}
	}
	return last, found
}

func formatAction(action collector.Action) string {
	s := action.Name
	if action.Locator != "" {
		s += " " + action.Locator
	}
	if action.Value != "" {
		s += fmt.Sprintf(" %q", action.Value)
	}
	if action.Err != "" {
		s += " failed: " + action.Err
	}
	return s
}

func writeJournal(w io.Writer, events []*collector.Event, color bool) error {
	content, err := json.MarshalIndent(JournalEntries(events), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}
	if !color {
		_, err = fmt.Fprintf(w, "%s\n", content)
		return err
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter, style := chromaFormatterAndStyle()

	iterator, err := lexer.Tokenise(nil, string(content))
	if err != nil {
		return fmt.Errorf("highlighting journal: %w", err)
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		return fmt.Errorf("highlighting journal: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func chromaFormatterAndStyle() (chroma.Formatter, *chroma.Style) {
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	return formatter, style
}

// JournalEntry is the JSON view of a collector event.
type JournalEntry struct {
	Kind     string         `json:"kind"`
	Start    time.Time      `json:"start"`
	Duration string         `json:"duration,omitempty"`
	Data     any            `json:"data,omitempty"`
	Children []JournalEntry `json:"children,omitempty"`
}

// JournalEntries converts events and their children to their JSON view.
func JournalEntries(events []*collector.Event) []JournalEntry {
	if len(events) == 0 {
		return nil
	}
	return lo.Map(events, func(evt *collector.Event, _ int) JournalEntry {
		entry := JournalEntry{
			Start:    evt.Start,
			Children: JournalEntries(evt.Children),
		}
		if d := evt.Duration(); d > 0 {
			entry.Duration = d.String()
		}
		entry.Kind, entry.Data = describe(evt.Data)
		return entry
	})
}

func describe(data any) (string, any) {
	switch d := data.(type) {
	case collector.Action:
		return "action", d
	case collector.Wait:
		return "wait", d
	case collector.Attempt:
		return "attempt", d
	case collector.Network:
		return "network", d
	case collector.Dialog:
		return "dialog", d
	case slog.Record:
		attrs := make(map[string]any, d.NumAttrs())
		d.Attrs(func(attr slog.Attr) bool {
			attrs[attr.Key] = attr.Value.Resolve().String()
			return true
		})
		return "log", map[string]any{
			"level":   d.Level.String(),
			"message": d.Message,
			"attrs":   attrs,
		}
	case nil:
		return "group", nil
	}
	return fmt.Sprintf("%T", data), data
}
