package collector_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/playground/collector"
)

func newRun(t *testing.T, aggregator *collector.Aggregator) (context.Context, *collector.Journal) {
	t.Helper()

	runID := uuid.Must(uuid.NewV7())
	journal := collector.NewJournal(runID, 10)
	aggregator.Register(journal)
	t.Cleanup(func() { aggregator.Unregister(runID) })

	return collector.WithRunID(context.Background(), runID), journal
}

func TestAggregator_ShouldCapture(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	assert.False(t, aggregator.ShouldCapture(context.Background()))

	ctx, _ := newRun(t, aggregator)
	assert.True(t, aggregator.ShouldCapture(ctx))

	other := collector.WithRunID(context.Background(), uuid.Must(uuid.NewV7()))
	assert.False(t, aggregator.ShouldCapture(other))
}

func TestAggregator_RoutesEventsByRun(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctxA, journalA := newRun(t, aggregator)
	ctxB, journalB := newRun(t, aggregator)

	aggregator.CollectEvent(ctxA, collector.Action{Name: "navigate", Value: "/sampleapp"})
	aggregator.CollectEvent(ctxB, collector.Action{Name: "navigate", Value: "/ajax"})
	aggregator.CollectEvent(ctxA, collector.Action{Name: "click", Locator: "#login"})
	aggregator.CollectEvent(context.Background(), collector.Action{Name: "dropped"})

	eventsA := journalA.AllEvents()
	require.Len(t, eventsA, 2)
	assert.Equal(t, "navigate", eventsA[0].Data.(collector.Action).Name)
	assert.Equal(t, "#login", eventsA[1].Data.(collector.Action).Locator)
	assert.Equal(t, journalA.RunID(), eventsA[0].RunID)

	eventsB := journalB.AllEvents()
	require.Len(t, eventsB, 1)
	assert.Equal(t, "/ajax", eventsB[0].Data.(collector.Action).Value)
}

func TestAggregator_GroupsChildren(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctx, journal := newRun(t, aggregator)

	waitCtx := aggregator.StartEvent(ctx)
	aggregator.CollectEvent(waitCtx, collector.Attempt{N: 1})
	aggregator.CollectEvent(waitCtx, collector.Attempt{N: 2, Satisfied: true})

	// Nothing is dispatched until the group ends
	assert.Empty(t, journal.AllEvents())

	aggregator.EndEvent(waitCtx, collector.Wait{Description: "visibility of #loginstatus", Attempts: 2})

	events := journal.AllEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "visibility of #loginstatus", events[0].Data.(collector.Wait).Description)
	require.Len(t, events[0].Children, 2)
	assert.True(t, events[0].Children[1].Data.(collector.Attempt).Satisfied)
	assert.False(t, events[0].End.Before(events[0].Start))

	var visited int
	for range events[0].Visit() {
		visited++
	}
	assert.Equal(t, 3, visited)
}

func TestAggregator_NestedGroups(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctx, journal := newRun(t, aggregator)

	outer := aggregator.StartEvent(ctx)
	inner := aggregator.StartEvent(outer)
	aggregator.CollectEvent(inner, collector.Attempt{N: 1})
	aggregator.EndEvent(inner, collector.Wait{Description: "inner"})
	aggregator.EndEvent(outer, collector.Wait{Description: "outer"})

	events := journal.AllEvents()
	require.Len(t, events, 1)
	require.Len(t, events[0].Children, 1)
	assert.Equal(t, "inner", events[0].Children[0].Data.(collector.Wait).Description)
	assert.Len(t, events[0].Children[0].Children, 1)
}

func TestAggregator_Subscribe(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctx, journal := newRun(t, aggregator)

	all := collector.Collect(t, aggregator.Subscribe)

	aggregator.CollectEvent(ctx, collector.Action{Name: "click"})
	aggregator.CollectEvent(context.Background(), collector.Action{Name: "outside of a run"})

	events := all.Wait(1)
	require.Len(t, events, 1)
	assert.Equal(t, journal.RunID(), events[0].RunID)
}

func TestSlogHandler_CollectsIntoRun(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctx, journal := newRun(t, aggregator)

	logger := slog.New(collector.NewSlogHandler(aggregator, collector.SlogHandlerOptions{Level: slog.LevelDebug}))
	logger = logger.With("scenario", "01 Sample App").WithGroup("step")

	logger.InfoContext(ctx, "Clicking", "locator", "#login")
	logger.InfoContext(context.Background(), "Not captured")
	logger.DebugContext(ctx, "Debug captured")

	events := journal.AllEvents()
	require.Len(t, events, 2)

	record, ok := events[0].Data.(slog.Record)
	require.True(t, ok)
	assert.Equal(t, "Clicking", record.Message)

	attrs := map[string]slog.Value{}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value
		return true
	})
	assert.Equal(t, "01 Sample App", attrs["scenario"].String())
	require.Equal(t, slog.KindGroup, attrs["step"].Kind())
	assert.Equal(t, "locator", attrs["step"].Group()[0].Key)
}

func TestSlogHandler_Level(t *testing.T) {
	aggregator := collector.NewAggregator()
	defer aggregator.Close()

	ctx, journal := newRun(t, aggregator)

	logger := slog.New(collector.NewSlogHandler(aggregator, collector.SlogHandlerOptions{}))
	logger.DebugContext(ctx, "skipped")
	logger.WarnContext(ctx, "kept")

	events := journal.AllEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].Data.(slog.Record).Message)
}
