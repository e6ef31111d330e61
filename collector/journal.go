package collector

import (
	"github.com/gofrs/uuid"
)

// DefaultJournalCapacity is the number of top-level events a journal keeps.
const DefaultJournalCapacity = 500

// Journal stores the events of a single scenario run.
type Journal struct {
	runID  uuid.UUID
	buffer *RingBuffer[*Event]
}

// NewJournal creates a journal for the given run ID.
// A capacity of 0 or less uses DefaultJournalCapacity.
func NewJournal(runID uuid.UUID, capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &Journal{
		runID:  runID,
		buffer: NewRingBuffer[*Event](capacity),
	}
}

// RunID returns the run this journal belongs to.
func (j *Journal) RunID() uuid.UUID {
	return j.runID
}

// Add stores an event.
func (j *Journal) Add(event *Event) {
	j.buffer.Add(event)
}

// AllEvents returns all buffered top-level events, oldest first.
func (j *Journal) AllEvents() []*Event {
	return j.buffer.All()
}
