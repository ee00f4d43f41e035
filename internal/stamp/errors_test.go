package stamp_test

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"utimes-go/internal/stamp"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *stamp.Error
		want string
	}{
		{
			name: "full",
			err:  &stamp.Error{Kind: stamp.KindPathNotFound, Op: "utimensat", Path: "/a", Code: 2, Err: errors.New("no such file or directory")},
			want: "PathNotFound: utimensat /a: no such file or directory (code 2)",
		},
		{
			name: "kind only",
			err:  &stamp.Error{Kind: stamp.KindIOFailure},
			want: "IOFailure",
		},
		{
			name: "no path",
			err:  &stamp.Error{Kind: stamp.KindInvalidSpecification, Op: "normalize", Err: errors.New("bad")},
			want: "InvalidSpecification: normalize: bad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &stamp.Error{
		Kind: stamp.KindPermissionDenied,
		Op:   "utimensat",
		Path: "/etc/passwd",
		Code: 1,
		Err:  syscall.EPERM,
	})

	if !errors.Is(err, stamp.ErrPermissionDenied) {
		t.Error("errors.Is(err, ErrPermissionDenied) = false")
	}
	if errors.Is(err, stamp.ErrPathNotFound) {
		t.Error("errors.Is(err, ErrPathNotFound) = true")
	}
	if !errors.Is(err, syscall.EPERM) {
		t.Error("errors.Is(err, EPERM) = false")
	}
	if got := stamp.KindOf(err); got != stamp.KindPermissionDenied {
		t.Errorf("KindOf() = %v", got)
	}
	if got := stamp.KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}

	// A fully populated error is not a sentinel.
	other := &stamp.Error{Kind: stamp.KindPermissionDenied, Path: "/x"}
	if errors.Is(err, other) {
		t.Error("errors.Is matched a non-sentinel target")
	}
}

func TestParseErrorKind(t *testing.T) {
	for k := stamp.KindInvalidSpecification; k <= stamp.KindIOFailure; k++ {
		got, err := stamp.ParseErrorKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseErrorKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := stamp.ParseErrorKind("Nope"); err == nil {
		t.Error("ParseErrorKind(Nope) expected error")
	}
}
