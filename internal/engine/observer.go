package engine

import "time"

// EventType represents different lifecycle phases of an operation
type EventType string

const (
	EventOpStart EventType = "op_start"
	EventOpEnd   EventType = "op_end"
)

// Event represents a lifecycle event of one engine operation
type Event struct {
	Type      EventType   // Type of event
	OpID      string      // Operation ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // *Operation for op_start, Outcome for op_end
}

// Outcome is the payload of an op_end event
type Outcome struct {
	Operation *Operation
	Err       error
	Duration  time.Duration
}

// Observer interface for event subscribers
// Observers receive events at the start and end of every operation
type Observer interface {
	OnEvent(event Event)
}
