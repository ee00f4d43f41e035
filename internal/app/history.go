package app

import (
	"fmt"

	"utimes-go/internal/journal"
	"utimes-go/internal/stamp"
)

// History returns up to limit journaled operations, newest first.
func (a *UtimesApp) History(limit int) ([]*journal.Operation, error) {
	if a.journal == nil {
		return nil, ErrNoJournal
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return a.journal.ListOperations(limit)
}

// Entries returns the per-path records of an operation.
func (a *UtimesApp) Entries(operationID string) ([]*journal.Entry, error) {
	if a.journal == nil {
		return nil, ErrNoJournal
	}
	op, err := a.journal.FindOperation(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("no operation %s", operationID)
	}
	return a.journal.FindEntries(operationID)
}

// UndoResult is what an Undo call did.
type UndoResult struct {
	OperationID string
	UndoOf      string
	Result      stamp.BatchResult
	// Skipped lists paths of the original operation that had nothing to
	// restore: they failed originally or their prior times were unreadable.
	Skipped []string
}

// Undo restores, for every path the operation changed, the prior values of
// the fields it requested, in the operation's link mode. The undo itself is
// journaled and can be undone in turn. An operation can be undone once.
func (a *UtimesApp) Undo(operationID string) (UndoResult, error) {
	if a.journal == nil {
		return UndoResult{}, ErrNoJournal
	}
	orig, err := a.journal.FindOperation(operationID)
	if err != nil {
		return UndoResult{}, err
	}
	if orig == nil {
		return UndoResult{}, fmt.Errorf("no operation %s", operationID)
	}
	if orig.Status == journal.StatusRunning {
		return UndoResult{}, fmt.Errorf("operation %s never finished", operationID)
	}
	prev, err := a.journal.FindUndo(operationID)
	if err != nil {
		return UndoResult{}, err
	}
	if prev != nil {
		return UndoResult{}, fmt.Errorf("operation %s was already undone by %s", operationID, prev.ID)
	}

	entries, err := a.journal.FindEntries(operationID)
	if err != nil {
		return UndoResult{}, err
	}

	res := UndoResult{UndoOf: operationID}
	var targets []target
	for _, e := range entries {
		restore := e.Prior.Only(orig.Spec.Fields()...)
		if !e.Applied || restore.Empty() {
			res.Skipped = append(res.Skipped, e.Path)
			continue
		}
		targets = append(targets, target{path: e.Path, spec: restore})
	}

	op := NewOperation(a.journal, &journal.Operation{
		ID:        a.ids.New(),
		Command:   "undo",
		Mode:      orig.Mode,
		Spec:      orig.Spec,
		UndoOf:    operationID,
		StartedAt: a.clock.Now(),
	})
	res.Result, err = a.run(op, targets)
	res.OperationID = a.operationID(op)
	return res, err
}

// StatResult holds the timestamps of one path, or why they could not be
// read.
type StatResult struct {
	Path  string
	Times stamp.Spec
	Err   error
}

// Stat reads the timestamps of every path. A failing path does not stop the
// others.
func (a *UtimesApp) Stat(paths []string, mode stamp.LinkMode) []StatResult {
	out := make([]StatResult, len(paths))
	for i, p := range paths {
		times, err := a.backend.Stat(p, mode)
		out[i] = StatResult{Path: p, Times: times, Err: err}
	}
	return out
}
