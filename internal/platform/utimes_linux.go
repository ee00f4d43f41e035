//go:build linux

package platform

import (
	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

// Linux has no portable call that writes the birth time; btime requests are
// accepted and ignored.
var support = stamp.Support{
	Atime:      true,
	Mtime:      true,
	LinkItself: true,
}

const utimeOmit = unix.UTIME_OMIT

func apply(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	spec = support.Effective(spec)
	if spec.Empty() {
		return nil
	}
	return utimensat(path, mode, spec)
}
