package app

import (
	"context"
	"errors"
	"fmt"

	utimes "utimes-go"
	"utimes-go/internal/journal"
	"utimes-go/internal/stamp"
)

// SetRequest describes one "set" command. Precedence, lowest first:
// Reference, Time, Fields. With none of them given atime and mtime are set
// to now and btime is left alone.
type SetRequest struct {
	Paths     []string
	Mode      stamp.LinkMode
	Reference string
	// Time is a bare instant applied to all three fields.
	Time   any
	Fields stamp.Fields
}

// SetResult is what a Set call did.
type SetResult struct {
	OperationID string
	Spec        stamp.Spec
	Result      stamp.BatchResult
}

// BuildSpec resolves req into the Spec Set would apply, without touching
// any path.
func (a *UtimesApp) BuildSpec(ctx context.Context, req SetRequest) (stamp.Spec, error) {
	var spec stamp.Spec
	given := false

	if req.Reference != "" {
		ref, err := a.resolver.Resolve(ctx, req.Reference)
		if err != nil {
			return stamp.Spec{}, fmt.Errorf("reading reference %s: %w", req.Reference, err)
		}
		spec, given = ref, true
	}
	if req.Time != nil {
		t, err := a.normalizer.Normalize(req.Time)
		if err != nil {
			return stamp.Spec{}, err
		}
		spec, given = spec.Merge(t), true
	}
	if req.Fields != (stamp.Fields{}) {
		f, err := a.normalizer.Normalize(req.Fields)
		if err != nil {
			return stamp.Spec{}, err
		}
		spec, given = spec.Merge(f), true
	}

	if !given {
		now := a.clock.Now().UnixMilli()
		spec = stamp.Spec{}.With(stamp.Atime, now).With(stamp.Mtime, now)
	}
	return spec, nil
}

// Set applies req to every path in order. Structural failures (bad time
// values, unreadable reference) are returned before any path is touched;
// per-path failures are in the result and do not make Set return an error.
func (a *UtimesApp) Set(ctx context.Context, req SetRequest) (SetResult, error) {
	if len(req.Paths) == 0 {
		return SetResult{}, errors.New("no paths given")
	}
	spec, err := a.BuildSpec(ctx, req)
	if err != nil {
		return SetResult{}, err
	}

	op := NewOperation(a.journal, &journal.Operation{
		ID:        a.ids.New(),
		Command:   "set",
		Mode:      req.Mode,
		Spec:      spec,
		StartedAt: a.clock.Now(),
	})
	targets := make([]target, len(req.Paths))
	for i, p := range req.Paths {
		targets[i] = target{path: p, spec: spec}
	}
	result, err := a.run(op, targets)
	return SetResult{OperationID: a.operationID(op), Spec: spec, Result: result}, err
}

// target is one path and the Spec meant for it.
type target struct {
	path string
	spec stamp.Spec
}

// run applies every target in order through the client, journaling the
// prior timestamps of each path when op is persisted. Consecutive targets
// sharing a Spec go out as one batch.
func (a *UtimesApp) run(op *Operation, targets []target) (stamp.BatchResult, error) {
	if err := op.Start(); err != nil {
		return stamp.BatchResult{}, err
	}

	priors := make([]stamp.Spec, len(targets))
	if op.Persisted() {
		for i, t := range targets {
			prior, err := a.backend.Stat(t.path, op.Record.Mode)
			if err != nil {
				a.logger.Debug("prior timestamps unreadable", "path", t.path, "error", err)
				continue
			}
			priors[i] = prior.Only(t.spec.Fields()...)
		}
	}

	var result stamp.BatchResult
	for start := 0; start < len(targets); {
		end := start + 1
		for end < len(targets) && targets[end].spec.Equal(targets[start].spec) {
			end++
		}
		paths := make([]string, 0, end-start)
		for _, t := range targets[start:end] {
			paths = append(paths, t.path)
		}
		batch, _ := a.client.Do(utimes.Call{Paths: paths, Time: targets[start].spec, Mode: op.Record.Mode})
		result.Outcomes = append(result.Outcomes, batch.Outcomes...)
		start = end
	}
	for i, o := range result.Outcomes {
		op.Add(o, priors[i])
	}

	if err := op.Finish(result, a.clock.Now()); err != nil {
		a.logger.Error("journal update failed", "operation", op.Record.ID, "error", err)
		return result, err
	}
	a.logger.Info("operation finished",
		"operation", op.Record.ID,
		"command", op.Record.Command,
		"paths", result.Len(),
		"failed", len(result.Failed()),
		"status", string(op.Record.Status))
	return result, nil
}

func (a *UtimesApp) operationID(op *Operation) string {
	if !op.Persisted() {
		return ""
	}
	return op.Record.ID
}
