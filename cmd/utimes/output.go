package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"utimes-go/internal/app"
	"utimes-go/internal/journal"
	"utimes-go/internal/stamp"
)

// isTerminal decides between human output and tab separated output.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printBatch reports a finished batch, one line per path. Failures are also
// written to errw. Without a terminal each line is "path<TAB>ok" or
// "path<TAB>Kind<TAB>message".
func printBatch(w, errw io.Writer, human bool, opID string, result stamp.BatchResult) error {
	failed := result.Failed()
	for _, o := range failed {
		fmt.Fprintf(errw, "utimes: %v\n", o.Err)
	}

	for _, o := range result.Outcomes {
		switch {
		case human && o.Applied():
			fmt.Fprintf(w, "updated  %s\n", o.Path)
		case human:
			fmt.Fprintf(w, "FAILED   %s\n", o.Path)
		case o.Applied():
			fmt.Fprintf(w, "%s\tok\n", o.Path)
		default:
			fmt.Fprintf(w, "%s\t%s\t%v\n", o.Path, o.Kind(), o.Err)
		}
	}
	if human && opID != "" {
		fmt.Fprintf(w, "Operation: %s\n", opID)
	}

	if len(failed) > 0 {
		return errFailed
	}
	return nil
}

func printStat(w, errw io.Writer, human bool, results []app.StatResult) error {
	var failed bool
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errw, "utimes: %v\n", r.Err)
			failed = true
			continue
		}
		if human {
			fmt.Fprintf(w, "%s\n", r.Path)
			for _, f := range stamp.AllFields {
				fmt.Fprintf(w, "  %s: %s\n", f, humanTime(r.Times, f))
			}
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path,
				rawTime(r.Times, stamp.Atime), rawTime(r.Times, stamp.Mtime), rawTime(r.Times, stamp.Btime))
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func printHistory(w io.Writer, human bool, ops []*journal.Operation) {
	for _, op := range ops {
		if !human {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				op.ID, op.Command, op.Mode, op.StartedAt.UnixMilli(), op.Status, op.UndoOf, op.Spec)
			continue
		}
		undo := ""
		if op.UndoOf != "" {
			undo = "  undo of " + op.UndoOf
		}
		fmt.Fprintf(w, "%s  %-5s  %s  %-8s  %-8s  %s%s\n",
			op.ID,
			op.Command,
			op.StartedAt.Format("2006-01-02 15:04:05"),
			op.Status,
			formatDuration(op.StartedAt, op.FinishedAt),
			op.Spec,
			undo,
		)
	}
}

func printEntries(w io.Writer, human bool, entries []*journal.Entry) {
	for _, e := range entries {
		status := "ok"
		if !e.Applied {
			status = e.ErrorKind.String()
		}
		if human {
			fmt.Fprintf(w, "%-20s  %s", status, e.Path)
			if e.Message != "" {
				fmt.Fprintf(w, "  (%s)", e.Message)
			}
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Seq, e.Path, status, e.Prior)
	}
}

func humanTime(s stamp.Spec, f stamp.Field) string {
	ms, ok := s.Get(f)
	if !ok {
		return "-"
	}
	return stamp.FormatMillis(ms)
}

func rawTime(s stamp.Spec, f stamp.Field) string {
	ms, ok := s.Get(f)
	if !ok {
		return "-"
	}
	return strconv.FormatInt(ms, 10)
}
