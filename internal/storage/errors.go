// Package storage holds the errors shared by every storage backend.
package storage

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrReferenceConflict is returned when a write references a record that does not exist.
	ErrReferenceConflict = errors.New("referenced record does not exist")
	ErrDuplicate         = errors.New("record already exists")
)
