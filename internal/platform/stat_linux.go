//go:build linux

package platform

import (
	"errors"

	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

// stat uses statx so the birth time is reported where the filesystem keeps
// one (ext4, btrfs, xfs). Kernels older than 4.11 fall back to stat(2).
func stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	flags := 0
	if mode == stamp.ActOnLinkItself {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, flags, unix.STATX_ATIME|unix.STATX_MTIME|unix.STATX_BTIME, &stx)
	if errors.Is(err, unix.ENOSYS) {
		return statFallback(path, mode)
	}
	if err != nil {
		return stamp.Spec{}, wrapErr("statx", path, err)
	}

	var s stamp.Spec
	if stx.Mask&unix.STATX_ATIME != 0 {
		s = s.With(stamp.Atime, statxMillis(stx.Atime))
	}
	if stx.Mask&unix.STATX_MTIME != 0 {
		s = s.With(stamp.Mtime, statxMillis(stx.Mtime))
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		s = s.With(stamp.Btime, statxMillis(stx.Btime))
	}
	return s, nil
}

func statxMillis(ts unix.StatxTimestamp) int64 {
	return ts.Sec*1000 + int64(ts.Nsec)/1e6
}

func statFallback(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	var st unix.Stat_t
	var err error
	if mode == stamp.ActOnLinkItself {
		err = unix.Lstat(path, &st)
	} else {
		err = unix.Stat(path, &st)
	}
	if err != nil {
		return stamp.Spec{}, wrapErr("stat", path, err)
	}
	return stamp.Spec{}.
		With(stamp.Atime, timespecMillis(st.Atim)).
		With(stamp.Mtime, timespecMillis(st.Mtim)), nil
}
