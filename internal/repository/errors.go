package repository

import "errors"

// Sentinel errors shared by every store implementation so services stay
// agnostic of the backing technology.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when an optimistic workload write lost
	// the race against a concurrent update.
	ErrVersionConflict = errors.New("workload version conflict")

	// ErrActiveAssignmentExists is returned when inserting an assignment for
	// a task that already has an active one.
	ErrActiveAssignmentExists = errors.New("active assignment exists for task")
)
