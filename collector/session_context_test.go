package collector_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/networkteam/playground/collector"
)

func TestWithRunID_AddsToContext(t *testing.T) {
	runID := uuid.Must(uuid.NewV7())

	ctx := collector.WithRunID(context.Background(), runID)

	retrievedID, ok := collector.RunIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, runID, retrievedID)
}

func TestRunIDFromContext_NotSet(t *testing.T) {
	retrievedID, ok := collector.RunIDFromContext(context.Background())

	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, retrievedID)
}

func TestWithRunID_Overrides(t *testing.T) {
	outer := uuid.Must(uuid.NewV7())
	inner := uuid.Must(uuid.NewV7())
	ctx := collector.WithRunID(collector.WithRunID(context.Background(), outer), inner)

	retrievedID, ok := collector.RunIDFromContext(ctx)

	assert.True(t, ok)
	assert.Equal(t, inner, retrievedID)
}
