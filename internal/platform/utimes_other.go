//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"os"
	"time"

	"utimes-go/internal/stamp"
)

var support = stamp.Support{
	Atime: true,
	Mtime: true,
}

var errNoLinkCall = errors.New("changing timestamps of a link itself is not available on this platform")

// apply relies on os.Chtimes leaving a field unchanged when given the zero
// time.Time.
func apply(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	spec = support.Effective(spec)
	if spec.Empty() {
		return nil
	}
	if mode == stamp.ActOnLinkItself {
		return unsupported("chtimes", path, errNoLinkCall)
	}

	var atime, mtime time.Time
	if ms, ok := spec.Get(stamp.Atime); ok {
		atime = millisToTime(ms)
	}
	if ms, ok := spec.Get(stamp.Mtime); ok {
		mtime = millisToTime(ms)
	}
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return wrapErr("chtimes", path, err)
	}
	return nil
}
