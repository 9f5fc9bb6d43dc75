package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound     = errors.New("not found")
	ErrTimerRunning = errors.New("timer is running")
)

// ValidationError reports rejected user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// NotFoundError reports an operation on an unknown id.
type NotFoundError struct {
	Kind string // "task", "slot", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Kind)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError reports an unreadable, corrupt, or unwritable storage slot.
// It is recovered locally and only logged.
type PersistenceError struct {
	Op   string // "load", "persist"
	Slot string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("%s slot %q: %v", e.Op, e.Slot, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
