package app

import (
	"errors"
	"fmt"
	"time"

	"utimes-go/internal/journal"
	"utimes-go/internal/stamp"
)

// Operation tracks one mutating command while it runs. Without a journal it
// records nothing and is never persisted.
type Operation struct {
	Record *journal.Operation

	j         journal.Journal
	seq       int
	persisted bool
	errs      []error
}

// NewOperation creates an in-memory operation. It is written to j by Start.
func NewOperation(j journal.Journal, rec *journal.Operation) *Operation {
	return &Operation{Record: rec, j: j}
}

// Start persists the operation. It is a no-op without a journal.
func (o *Operation) Start() error {
	if o.j == nil || o.persisted {
		return nil
	}
	if err := o.j.CreateOperation(o.Record); err != nil {
		return fmt.Errorf("journaling %s: %w", o.Record.Command, err)
	}
	o.persisted = true
	return nil
}

// Persisted reports whether the operation was written to the journal.
func (o *Operation) Persisted() bool {
	return o.persisted
}

// Add records the outcome of the next path. Journal failures are collected
// and reported by Finish so the batch itself is never interrupted.
func (o *Operation) Add(outcome stamp.Outcome, prior stamp.Spec) {
	if !o.persisted {
		return
	}
	e := &journal.Entry{
		OperationID: o.Record.ID,
		Seq:         o.seq,
		Path:        outcome.Path,
		Applied:     outcome.Applied(),
		ErrorKind:   outcome.Kind(),
		Prior:       prior,
	}
	if outcome.Err != nil {
		e.Message = outcome.Err.Error()
	}
	o.seq++
	if err := o.j.RecordEntry(e); err != nil {
		o.errs = append(o.errs, err)
	}
}

// Finish stores the final status derived from result.
func (o *Operation) Finish(result stamp.BatchResult, at time.Time) error {
	status := journal.StatusOf(result)
	o.Record.Status = status
	o.Record.FinishedAt = at
	if !o.persisted {
		return nil
	}
	if err := o.j.FinishOperation(o.Record.ID, status, at); err != nil {
		o.errs = append(o.errs, err)
	}
	if err := errors.Join(o.errs...); err != nil {
		return fmt.Errorf("journaling %s: %w", o.Record.ID, err)
	}
	return nil
}
