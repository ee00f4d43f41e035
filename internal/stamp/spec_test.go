package stamp_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"utimes-go/internal/stamp"
)

func TestSpec_Presence(t *testing.T) {
	t.Run("zero value is empty", func(t *testing.T) {
		var s stamp.Spec
		if !s.Empty() {
			t.Error("zero Spec is not empty")
		}
		for _, f := range stamp.AllFields {
			if s.Has(f) {
				t.Errorf("zero Spec has %s", f)
			}
		}
	})

	t.Run("present zero differs from absent", func(t *testing.T) {
		s := stamp.Spec{}.With(stamp.Mtime, 0)
		ms, ok := s.Get(stamp.Mtime)
		if !ok || ms != 0 {
			t.Errorf("Get(mtime) = %d, %v, want 0, true", ms, ok)
		}
		if s.Equal(stamp.Spec{}) {
			t.Error("spec with mtime=0 equals empty spec")
		}
	})

	t.Run("With returns a copy", func(t *testing.T) {
		base := stamp.Spec{}.With(stamp.Atime, 1)
		changed := base.With(stamp.Atime, 2)
		if ms, _ := base.Get(stamp.Atime); ms != 1 {
			t.Errorf("base atime = %d, want 1", ms)
		}
		if ms, _ := changed.Get(stamp.Atime); ms != 2 {
			t.Errorf("changed atime = %d, want 2", ms)
		}
	})

	t.Run("Without removes the field", func(t *testing.T) {
		s := stamp.All(5).Without(stamp.Btime)
		if diff := cmp.Diff([]stamp.Field{stamp.Atime, stamp.Mtime}, s.Fields()); diff != "" {
			t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
		}
		if !s.Equal(stamp.Spec{}.With(stamp.Atime, 5).With(stamp.Mtime, 5)) {
			t.Errorf("Without() = %v", s)
		}
	})

	t.Run("invalid fields are ignored", func(t *testing.T) {
		s := stamp.Spec{}.With(stamp.Field(7), 1)
		if !s.Empty() || s.Has(stamp.Field(7)) {
			t.Errorf("With(invalid) = %v, want empty", s)
		}
	})
}

func TestSpec_MergeOnly(t *testing.T) {
	base := stamp.Spec{}.With(stamp.Atime, 1).With(stamp.Mtime, 2)
	over := stamp.Spec{}.With(stamp.Mtime, 20).With(stamp.Btime, 30)

	got := base.Merge(over)
	want := stamp.Spec{}.With(stamp.Atime, 1).With(stamp.Mtime, 20).With(stamp.Btime, 30)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	only := got.Only(stamp.Mtime, stamp.Atime)
	want = stamp.Spec{}.With(stamp.Atime, 1).With(stamp.Mtime, 20)
	if diff := cmp.Diff(want, only); diff != "" {
		t.Errorf("Only() mismatch (-want +got):\n%s", diff)
	}
}

func TestSpec_TimeAndString(t *testing.T) {
	s := stamp.Spec{}.With(stamp.Mtime, 1_700_000_000_123)

	got, ok := s.Time(stamp.Mtime)
	want := time.Date(2023, 11, 14, 22, 13, 20, 123_000_000, time.UTC)
	if !ok || !got.Equal(want) {
		t.Errorf("Time(mtime) = %v, %v, want %v", got, ok, want)
	}
	if _, ok := s.Time(stamp.Atime); ok {
		t.Error("Time(atime) reported present")
	}

	if str := s.String(); str != "{mtime=2023-11-14T22:13:20.123Z}" {
		t.Errorf("String() = %q", str)
	}
	if str := (stamp.Spec{}).String(); str != "{}" {
		t.Errorf("empty String() = %q", str)
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    stamp.Field
		wantErr bool
	}{
		{"atime", stamp.Atime, false},
		{"MTIME", stamp.Mtime, false},
		{" btime ", stamp.Btime, false},
		{"ctime", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := stamp.ParseField(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseField(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseField(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
