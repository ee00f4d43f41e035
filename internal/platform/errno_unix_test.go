//go:build unix

package platform

import (
	"syscall"
	"testing"

	"utimes-go/internal/stamp"
)

func TestClassifyErrno(t *testing.T) {
	tests := []struct {
		errno syscall.Errno
		want  stamp.ErrorKind
	}{
		{syscall.ENOENT, stamp.KindPathNotFound},
		{syscall.ENOTDIR, stamp.KindPathNotFound},
		{syscall.EACCES, stamp.KindPermissionDenied},
		{syscall.EPERM, stamp.KindPermissionDenied},
		{syscall.EROFS, stamp.KindPermissionDenied},
		{syscall.EIO, stamp.KindIOFailure},
		{syscall.ELOOP, stamp.KindIOFailure},
	}
	for _, tt := range tests {
		t.Run(tt.errno.Error(), func(t *testing.T) {
			err := wrapErr("utimensat", "/x", tt.errno)
			if got := stamp.KindOf(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
			e := err.(*stamp.Error)
			if e.Code != uintptr(tt.errno) {
				t.Errorf("Code = %d, want %d", e.Code, uintptr(tt.errno))
			}
		})
	}
}
