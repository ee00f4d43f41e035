//go:build unix

package platform

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

func classifyErrno(err error) stamp.ErrorKind {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return 0
	}
	switch errno {
	case unix.ENOENT, unix.ENOTDIR:
		return stamp.KindPathNotFound
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return stamp.KindPermissionDenied
	default:
		return stamp.KindIOFailure
	}
}
