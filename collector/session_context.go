package collector

import (
	"context"

	"github.com/gofrs/uuid"
)

type runIDKeyType struct{}

var runIDKey = runIDKeyType{}

// WithRunID returns a new context carrying the ID of the scenario run.
// Events collected with this context are routed to the journal of that run.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext retrieves the run ID from the context.
func RunIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(runIDKey).(uuid.UUID)
	return runID, ok
}

type groupIDKeyType struct{}

var groupIDKey = groupIDKeyType{}

func withGroupID(ctx context.Context, groupID uuid.UUID) context.Context {
	return context.WithValue(ctx, groupIDKey, groupID)
}

func groupIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	groupID, ok := ctx.Value(groupIDKey).(uuid.UUID)
	return groupID, ok
}
