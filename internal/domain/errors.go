package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPuzzle   = errors.New("invalid puzzle parameters")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// StoreError represents a failure in the persistence layer
type StoreError struct {
	Op      string // Operation: "get", "set", "remove"
	Key     string // Optional: key being accessed
	Backend string // Optional: "file", "sqlite", "memory"
	Err     error  // Underlying error
}

func (e *StoreError) Error() string {
	prefix := "store"
	if e.Backend != "" {
		prefix = e.Backend + " store"
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %s [%s]: %v", prefix, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", prefix, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
