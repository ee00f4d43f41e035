package stamp_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"utimes-go/internal/stamp"
	"utimes-go/internal/testutil"
)

func TestService_Apply(t *testing.T) {
	setup := func(t *testing.T) (*stamp.Service, *testutil.MockBackend, *testutil.RecordingLogger) {
		t.Helper()
		backend := testutil.NewMockBackend()
		logger := testutil.NewRecordingLogger()
		svc := stamp.NewService(backend, stamp.NewNormalizer(testutil.FixedClock()), logger)
		return svc, backend, logger
	}

	t.Run("processes paths in input order", func(t *testing.T) {
		svc, backend, _ := setup(t)
		for _, p := range []string{"c", "a", "b"} {
			backend.AddFile(p, stamp.Spec{})
		}
		spec := stamp.Spec{}.With(stamp.Mtime, 1)

		result := svc.Apply([]string{"c", "a", "b"}, stamp.FollowSymlinks, spec)

		want := []testutil.BackendCall{
			{Path: "c", Mode: stamp.FollowSymlinks, Spec: spec},
			{Path: "a", Mode: stamp.FollowSymlinks, Spec: spec},
			{Path: "b", Mode: stamp.FollowSymlinks, Spec: spec},
		}
		if diff := cmp.Diff(want, backend.Calls()); diff != "" {
			t.Errorf("Calls() mismatch (-want +got):\n%s", diff)
		}
		if result.Err() != nil {
			t.Errorf("Err() = %v", result.Err())
		}
	})

	t.Run("a failure does not stop later paths", func(t *testing.T) {
		svc, backend, logger := setup(t)
		backend.AddFile("A", stamp.Spec{})
		backend.AddFile("C", stamp.Spec{})
		spec := stamp.Spec{}.With(stamp.Mtime, 1_700_000_000_000)

		result := svc.Apply([]string{"A", "B", "C"}, stamp.FollowSymlinks, spec)

		if result.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", result.Len())
		}
		if !result.Outcomes[0].Applied() || !result.Outcomes[2].Applied() {
			t.Errorf("outcomes = %+v", result.Outcomes)
		}
		if !errors.Is(result.Outcomes[1].Err, stamp.ErrPathNotFound) {
			t.Errorf("Outcomes[1].Err = %v, want PathNotFound", result.Outcomes[1].Err)
		}
		if !errors.Is(result.Err(), stamp.ErrPathNotFound) {
			t.Errorf("Err() = %v", result.Err())
		}
		for _, p := range []string{"A", "C"} {
			if !backend.Times(p).Equal(spec) {
				t.Errorf("%s times = %v, want %v", p, backend.Times(p), spec)
			}
		}
		var warned bool
		for _, m := range logger.Messages() {
			if m == "WARN batch finished with failures" {
				warned = true
			}
		}
		if !warned {
			t.Errorf("log = %v, want batch warning", logger.Messages())
		}
	})

	t.Run("bare backend errors become IOFailure", func(t *testing.T) {
		svc, backend, _ := setup(t)
		backend.FailWith("x", errors.New("disk on fire"))

		result := svc.Apply([]string{"x"}, stamp.FollowSymlinks, stamp.All(0))

		if got := result.Outcomes[0].Kind(); got != stamp.KindIOFailure {
			t.Errorf("Kind() = %v, want IOFailure", got)
		}
		var e *stamp.Error
		if !errors.As(result.Err(), &e) || e.Path != "x" {
			t.Errorf("Err() = %v, want path x", result.Err())
		}
	})

	t.Run("empty path list", func(t *testing.T) {
		svc, backend, _ := setup(t)
		result := svc.Apply(nil, stamp.FollowSymlinks, stamp.All(0))
		if result.Len() != 0 || len(backend.Calls()) != 0 {
			t.Errorf("result = %+v, calls = %v", result, backend.Calls())
		}
	})

	t.Run("link mode reaches the backend", func(t *testing.T) {
		svc, backend, _ := setup(t)
		backend.AddFile("target", stamp.All(1))
		backend.AddSymlink("link", "target", stamp.All(2))

		result := svc.Apply([]string{"link"}, stamp.ActOnLinkItself, stamp.Spec{}.With(stamp.Mtime, 3))
		if err := result.Err(); err != nil {
			t.Fatalf("Err() = %v", err)
		}
		if got, _ := backend.Times("link").Get(stamp.Mtime); got != 3 {
			t.Errorf("link mtime = %d, want 3", got)
		}
		if got, _ := backend.Times("target").Get(stamp.Mtime); got != 1 {
			t.Errorf("target mtime = %d, want 1", got)
		}
	})
}

func TestService_ApplyInput(t *testing.T) {
	t.Run("invalid input touches no path", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.AddFile("a", stamp.All(1))
		svc := stamp.NewService(backend, nil, nil)

		_, err := svc.ApplyInput([]string{"a"}, stamp.FollowSymlinks, "not a time")

		if !errors.Is(err, stamp.ErrInvalidSpecification) {
			t.Fatalf("ApplyInput() error = %v", err)
		}
		if len(backend.Calls()) != 0 {
			t.Errorf("backend called %d times", len(backend.Calls()))
		}
		if !backend.Times("a").Equal(stamp.All(1)) {
			t.Errorf("a changed to %v", backend.Times("a"))
		}
	})

	t.Run("partial input leaves other fields", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.AddFile("a", stamp.All(1))
		svc := stamp.NewService(backend, nil, nil)

		result, err := svc.ApplyInput([]string{"a"}, stamp.FollowSymlinks, map[string]any{"mtime": int64(1_700_000_000_000)})
		if err != nil || result.Err() != nil {
			t.Fatalf("ApplyInput() = %v, %v", err, result.Err())
		}
		want := stamp.All(1).With(stamp.Mtime, 1_700_000_000_000)
		if diff := cmp.Diff(want, backend.Times("a")); diff != "" {
			t.Errorf("times mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unsupported fields are dropped", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.SetSupport(stamp.Support{Atime: true, Mtime: true, LinkItself: true})
		backend.AddFile("a", stamp.Spec{})
		svc := stamp.NewService(backend, nil, nil)

		if _, err := svc.ApplyInput([]string{"a"}, stamp.FollowSymlinks, stamp.Fields{Btime: 5}); err != nil {
			t.Fatalf("ApplyInput() error = %v", err)
		}
		if !backend.Times("a").Empty() {
			t.Errorf("times = %v, want empty", backend.Times("a"))
		}
	})
}

func TestSupport_Effective(t *testing.T) {
	s := stamp.Support{Atime: true, Mtime: true}
	got := s.Effective(stamp.All(7))
	want := stamp.Spec{}.With(stamp.Atime, 7).With(stamp.Mtime, 7)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Effective() mismatch (-want +got):\n%s", diff)
	}
	if s.Supports(stamp.Btime) {
		t.Error("Supports(btime) = true")
	}
}

func TestLinkMode(t *testing.T) {
	for _, m := range []stamp.LinkMode{stamp.FollowSymlinks, stamp.ActOnLinkItself} {
		got, err := stamp.ParseLinkMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseLinkMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := stamp.ParseLinkMode("sideways"); err == nil {
		t.Error("ParseLinkMode(sideways) expected error")
	}
}
