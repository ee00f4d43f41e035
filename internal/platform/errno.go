package platform

import (
	"errors"
	"io/fs"
	"syscall"

	"utimes-go/internal/stamp"
)

// wrapErr turns a native failure into a *stamp.Error carrying the OS code.
func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	e := &stamp.Error{
		Kind: classify(err),
		Op:   op,
		Path: path,
		Err:  err,
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = uintptr(errno)
	}
	return e
}

func classify(err error) stamp.ErrorKind {
	if k := classifyErrno(err); k != 0 {
		return k
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return stamp.KindPathNotFound
	case errors.Is(err, fs.ErrPermission):
		return stamp.KindPermissionDenied
	default:
		return stamp.KindIOFailure
	}
}

func unsupported(op, path string, err error) error {
	return &stamp.Error{
		Kind: stamp.KindUnsupportedOperation,
		Op:   op,
		Path: path,
		Err:  err,
	}
}
