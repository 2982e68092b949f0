package model

import (
	"fmt"
	"time"
)

// System groups related tasks. Its completion rate, streak and consistency
// are derived from the owned tasks' logs and are never stored as source of
// truth.
type System struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate validates the system.
func (s *System) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if s.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("creation timestamp is required: %w", ErrNotValid)
	}

	return nil
}
