//go:build windows

package platform

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"

	"utimes-go/internal/stamp"
)

func classifyErrno(err error) stamp.ErrorKind {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return 0
	}
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND,
		windows.ERROR_INVALID_NAME, windows.ERROR_BAD_NETPATH, windows.ERROR_INVALID_DRIVE:
		return stamp.KindPathNotFound
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_WRITE_PROTECT, windows.ERROR_PRIVILEGE_NOT_HELD:
		return stamp.KindPermissionDenied
	default:
		return stamp.KindIOFailure
	}
}
