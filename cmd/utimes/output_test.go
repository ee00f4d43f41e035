package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"utimes-go/internal/app"
	"utimes-go/internal/journal"
	"utimes-go/internal/stamp"
)

func TestPrintBatch(t *testing.T) {
	notFound := &stamp.Error{Kind: stamp.KindPathNotFound, Op: "utimensat", Path: "b", Err: errors.New("no such file or directory")}
	result := stamp.BatchResult{Outcomes: []stamp.Outcome{{Path: "a"}, {Path: "b", Err: notFound}}}

	t.Run("tab separated", func(t *testing.T) {
		var out, errOut bytes.Buffer
		err := printBatch(&out, &errOut, false, "op-1", result)
		if !errors.Is(err, errFailed) {
			t.Errorf("printBatch() error = %v, want errFailed", err)
		}
		want := "a\tok\nb\tPathNotFound\t" + notFound.Error() + "\n"
		if out.String() != want {
			t.Errorf("stdout = %q, want %q", out.String(), want)
		}
		if errOut.String() != "utimes: "+notFound.Error()+"\n" {
			t.Errorf("stderr = %q", errOut.String())
		}
	})

	t.Run("human", func(t *testing.T) {
		var out, errOut bytes.Buffer
		ok := stamp.BatchResult{Outcomes: []stamp.Outcome{{Path: "a"}}}
		if err := printBatch(&out, &errOut, true, "op-1", ok); err != nil {
			t.Errorf("printBatch() error = %v", err)
		}
		if got := out.String(); got != "updated  a\nOperation: op-1\n" {
			t.Errorf("stdout = %q", got)
		}
	})
}

func TestPrintStat(t *testing.T) {
	var out, errOut bytes.Buffer
	results := []app.StatResult{
		{Path: "a", Times: stamp.Spec{}.With(stamp.Atime, 1).With(stamp.Mtime, 2)},
		{Path: "b", Err: &stamp.Error{Kind: stamp.KindPathNotFound, Path: "b"}},
	}

	err := printStat(&out, &errOut, false, results)

	if !errors.Is(err, errFailed) {
		t.Errorf("printStat() error = %v, want errFailed", err)
	}
	if got := out.String(); got != "a\t1\t2\t-\n" {
		t.Errorf("stdout = %q", got)
	}
	if errOut.Len() == 0 {
		t.Error("expected the failure on stderr")
	}
}

func TestPrintHistory(t *testing.T) {
	started := time.UnixMilli(1_700_000_000_000)
	ops := []*journal.Operation{{
		ID:        "op-2",
		Command:   "undo",
		Mode:      stamp.FollowSymlinks,
		Spec:      stamp.Spec{}.With(stamp.Mtime, 0),
		UndoOf:    "op-1",
		StartedAt: started,
		Status:    journal.StatusSuccess,
	}}

	var out bytes.Buffer
	printHistory(&out, false, ops)

	want := "op-2\tundo\t" + stamp.FollowSymlinks.String() + "\t1700000000000\tsuccess\top-1\t" + ops[0].Spec.String() + "\n"
	if out.String() != want {
		t.Errorf("printHistory() = %q, want %q", out.String(), want)
	}
}

func TestFormatDuration(t *testing.T) {
	start := time.Unix(0, 0)
	if got := formatDuration(start, time.Time{}); got != "" {
		t.Errorf("formatDuration(running) = %q", got)
	}
	if got := formatDuration(start, start.Add(1500*time.Microsecond)); got != "1ms" {
		t.Errorf("formatDuration() = %q, want 1ms", got)
	}
}
