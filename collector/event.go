package collector

import (
	"iter"
	"time"

	"github.com/gofrs/uuid"
)

// Event is a recorded step of a scenario run. Events started with StartEvent group the events
// collected with the returned context as children.
type Event struct {
	ID uuid.UUID
	// RunID is set when the event is dispatched to the journal of a run
	RunID uuid.UUID

	GroupID *uuid.UUID

	Data any

	Start time.Time
	End   time.Time

	// Children is a slice of events that are children of this event
	Children []*Event
}

// Duration is the time between start and end of the event.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Visit yields the event and all its descendants depth-first.
func (e *Event) Visit() iter.Seq2[uuid.UUID, *Event] {
	return func(yield func(uuid.UUID, *Event) bool) {
		e.visitInternal(yield)
	}
}

func (e *Event) visitInternal(yield func(uuid.UUID, *Event) bool) bool {
	if !yield(e.ID, e) {
		return false
	}
	for _, child := range e.Children {
		if !child.visitInternal(yield) {
			return false
		}
	}
	return true
}

// Action is a browser interaction performed by a session.
type Action struct {
	Session uuid.UUID `json:"session"`
	Name    string    `json:"name"`
	Locator string    `json:"locator,omitempty"`
	Value   string    `json:"value,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// Wait groups the attempts of one explicit wait.
type Wait struct {
	Description string `json:"description"`
	Attempts    int    `json:"attempts"`
	Err         string `json:"error,omitempty"`
}

// Attempt is a single evaluation of a wait condition.
type Attempt struct {
	N         int    `json:"n"`
	Satisfied bool   `json:"satisfied"`
	Err       string `json:"error,omitempty"`
}

// Network is a response observed by the browser while a scenario was running.
type Network struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// Dialog is a JavaScript dialog that was accepted by the session.
type Dialog struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrString formats an optional error for event data.
func ErrString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
