package stamp_test

import (
	"errors"
	"testing"

	"utimes-go/internal/stamp"
)

func TestBatchResult(t *testing.T) {
	notFound := &stamp.Error{Kind: stamp.KindPathNotFound, Path: "b"}
	denied := &stamp.Error{Kind: stamp.KindPermissionDenied, Path: "d"}
	r := stamp.BatchResult{Outcomes: []stamp.Outcome{
		{Path: "a"},
		{Path: "b", Err: notFound},
		{Path: "c"},
		{Path: "d", Err: denied},
	}}

	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
	if err := r.Err(); err != notFound {
		t.Errorf("Err() = %v, want first failure", err)
	}
	failed := r.Failed()
	if len(failed) != 2 || failed[0].Path != "b" || failed[1].Path != "d" {
		t.Errorf("Failed() = %+v", failed)
	}
	joined := r.Joined()
	if !errors.Is(joined, stamp.ErrPathNotFound) || !errors.Is(joined, stamp.ErrPermissionDenied) {
		t.Errorf("Joined() = %v, want both kinds", joined)
	}
	if r.Outcomes[0].Kind() != 0 || r.Outcomes[1].Kind() != stamp.KindPathNotFound {
		t.Error("Outcome.Kind() mismatch")
	}

	t.Run("all applied", func(t *testing.T) {
		ok := stamp.BatchResult{Outcomes: []stamp.Outcome{{Path: "a"}}}
		if ok.Err() != nil || ok.Joined() != nil || len(ok.Failed()) != 0 {
			t.Errorf("clean result reported failures: %+v", ok)
		}
	})
}
