// Package journal records every mutating timestamp call so it can be listed
// and undone later.
package journal

import (
	"time"

	"utimes-go/internal/stamp"
)

// Status is the final state of an operation.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// StatusOf derives the operation status from its batch result.
func StatusOf(result stamp.BatchResult) Status {
	failed := len(result.Failed())
	switch {
	case failed == 0:
		return StatusSuccess
	case failed < result.Len():
		return StatusPartial
	default:
		return StatusError
	}
}

// Operation is one journaled call.
type Operation struct {
	ID      string
	Command string
	Mode    stamp.LinkMode
	// Spec is the normalized request.
	Spec       stamp.Spec
	UndoOf     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Status     Status
}

// Entry is the journaled outcome for one path of an operation.
type Entry struct {
	OperationID string
	Seq         int
	Path        string
	Applied     bool
	ErrorKind   stamp.ErrorKind
	Message     string
	// Prior holds the timestamps read before the path was changed. Fields
	// that could not be read are absent.
	Prior stamp.Spec
}

// Journal stores operations and their entries.
type Journal interface {
	// CreateOperation inserts op with status running.
	CreateOperation(op *Operation) error

	// RecordEntry appends the outcome of one path.
	RecordEntry(e *Entry) error

	// FinishOperation stamps the end time and final status.
	FinishOperation(id string, status Status, finishedAt time.Time) error

	// ListOperations returns up to limit operations, newest first.
	ListOperations(limit int) ([]*Operation, error)

	// FindOperation returns the operation with id, or nil if there is none.
	FindOperation(id string) (*Operation, error)

	// FindUndo returns the operation that undid id, or nil.
	FindUndo(id string) (*Operation, error)

	// FindEntries returns the entries of an operation in input order.
	FindEntries(operationID string) ([]*Entry, error)

	Close() error
}
