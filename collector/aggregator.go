package collector

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// Aggregator coordinates event collection and dispatches top-level events to the journal of
// the run found in the context. It does not store events itself.
type Aggregator struct {
	journals   map[uuid.UUID]*Journal
	openGroups map[uuid.UUID]*Event
	notifier   *Notifier[*Event]

	mu sync.RWMutex
}

// NewAggregator creates a new Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		journals:   make(map[uuid.UUID]*Journal),
		openGroups: make(map[uuid.UUID]*Event),
		notifier:   NewNotifier[*Event](),
	}
}

// Register adds a journal. Events of its run are dispatched to it until Unregister is called.
func (a *Aggregator) Register(journal *Journal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.journals[journal.RunID()] = journal
}

// Unregister removes the journal of a run.
func (a *Aggregator) Unregister(runID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.journals, runID)
}

// Journal returns the registered journal of a run, or nil.
func (a *Aggregator) Journal(runID uuid.UUID) *Journal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.journals[runID]
}

// ShouldCapture returns true if a journal is registered for the run in the context.
func (a *Aggregator) ShouldCapture(ctx context.Context) bool {
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, exists := a.journals[runID]
	return exists
}

// StartEvent starts a new event and returns a new context with the group ID.
// Events collected with this context will be grouped under this event.
// Call EndEvent to finish the event.
func (a *Aggregator) StartEvent(ctx context.Context) context.Context {
	eventID := uuid.Must(uuid.NewV7())

	a.mu.Lock()
	defer a.mu.Unlock()

	evt := &Event{
		ID:    eventID,
		Start: time.Now(),
	}

	if outerGroupID, ok := groupIDFromContext(ctx); ok {
		evt.GroupID = &outerGroupID
	}

	a.openGroups[eventID] = evt

	return withGroupID(ctx, eventID)
}

// EndEvent finishes an event started with StartEvent and dispatches it if it is top-level.
func (a *Aggregator) EndEvent(ctx context.Context, data any) {
	groupID, ok := groupIDFromContext(ctx)
	if !ok {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	evt := a.openGroups[groupID]
	if evt == nil {
		return
	}
	delete(a.openGroups, groupID)

	evt.Data = data
	evt.End = time.Now()

	if evt.GroupID != nil {
		if parent := a.openGroups[*evt.GroupID]; parent != nil {
			parent.Children = append(parent.Children, evt)
			return
		}
	}

	a.dispatch(ctx, evt)
}

// CollectEvent creates and immediately completes an event.
func (a *Aggregator) CollectEvent(ctx context.Context, data any) {
	now := time.Now()
	evt := &Event{
		ID:    uuid.Must(uuid.NewV7()),
		Data:  data,
		Start: now,
		End:   now,
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if outerGroupID, ok := groupIDFromContext(ctx); ok {
		evt.GroupID = &outerGroupID
		if parent := a.openGroups[outerGroupID]; parent != nil {
			parent.Children = append(parent.Children, evt)
			return
		}
	}

	a.dispatch(ctx, evt)
}

// Subscribe returns a channel receiving every dispatched top-level event of all runs.
func (a *Aggregator) Subscribe(ctx context.Context) <-chan *Event {
	return a.notifier.Subscribe(ctx)
}

// dispatch must be called with the lock held.
func (a *Aggregator) dispatch(ctx context.Context, evt *Event) {
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		return
	}
	journal := a.journals[runID]
	if journal == nil {
		return
	}
	evt.RunID = runID
	journal.Add(evt)
	a.notifier.Notify(evt)
}

// Close unregisters all journals and closes subscriptions.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.journals = make(map[uuid.UUID]*Journal)
	a.openGroups = make(map[uuid.UUID]*Event)
	a.notifier.Close()
}
