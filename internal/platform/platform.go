// Package platform holds the native timestamp backends. Exactly one variant
// is compiled per target OS; all of them satisfy stamp.Backend.
package platform

import (
	"time"

	"utimes-go/internal/stamp"
)

// Backend applies timestamps with the host operating system's native calls.
type Backend struct{}

// New returns the backend for the build target.
func New() *Backend {
	return &Backend{}
}

// Apply writes the requested fields of spec to path. Fields the platform
// cannot write are skipped without error.
func (b *Backend) Apply(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	if spec.Empty() {
		return nil
	}
	return apply(path, mode, spec)
}

// Support returns the field support of the build target.
func (b *Backend) Support() stamp.Support {
	return support
}

// Stat reads back the timestamps of path.
func (b *Backend) Stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	return stat(path, mode)
}

// Stat reads back the timestamps of path. Fields the platform or the
// filesystem does not expose are absent from the result.
func Stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	return stat(path, mode)
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// nanosToMillis floors ns to whole milliseconds.
func nanosToMillis(ns int64) int64 {
	ms := ns / 1e6
	if ns%1e6 < 0 {
		ms--
	}
	return ms
}

var (
	_ stamp.Backend   = (*Backend)(nil)
	_ stamp.Inspector = (*Backend)(nil)
)
