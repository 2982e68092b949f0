package model

import (
	"fmt"
	"time"
)

// Task is a recurring habit owned by exactly one system. Its completion
// history lives in the completion log, never on the task itself.
type Task struct {
	ID        string
	SystemID  string
	Name      string
	Frequency Frequency
	CreatedAt time.Time
}

// Validate validates the task.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if t.SystemID == "" {
		return fmt.Errorf("system id is required: %w", ErrNotValid)
	}
	if t.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("creation timestamp is required: %w", ErrNotValid)
	}
	if err := t.Frequency.Validate(); err != nil {
		return fmt.Errorf("invalid frequency: %w", err)
	}

	return nil
}
