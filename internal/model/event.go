package model

import (
	"fmt"
	"time"
)

// EventSource marks where a completion event came from. It is display-only,
// the derived-state algorithms never look at it.
type EventSource string

const (
	// EventSourceManual is a completion marked directly by the user.
	EventSourceManual EventSource = "manual"
	// EventSourceImported is a completion fed by an external event source
	// (e.g. a health-tracking integration).
	EventSourceImported EventSource = "imported"
)

// CompletionEvent is an immutable record of a task completed on a calendar
// day. The log is a day-keyed set: at most one event per (task, day), a second
// completion on the same day overwrites instead of duplicating.
type CompletionEvent struct {
	TaskID     string
	Day        time.Time // Normalized to midnight UTC.
	OccurredAt time.Time
	Duration   *time.Duration
	Source     EventSource
}

// Validate validates the completion event.
func (e *CompletionEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("task id is required: %w", ErrNotValid)
	}
	if e.Day.IsZero() {
		return fmt.Errorf("day is required: %w", ErrNotValid)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("occurrence timestamp is required: %w", ErrNotValid)
	}
	switch e.Source {
	case EventSourceManual, EventSourceImported:
	default:
		return fmt.Errorf("unknown event source %q: %w", e.Source, ErrNotValid)
	}

	return nil
}
