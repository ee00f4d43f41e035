//go:build linux || darwin

package platform

import (
	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

// utimensat writes atime and mtime in one call. An absent field is passed as
// UTIME_OMIT so the kernel leaves it alone.
func utimensat(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	ts := [2]unix.Timespec{
		{Nsec: utimeOmit},
		{Nsec: utimeOmit},
	}
	for i, f := range []stamp.Field{stamp.Atime, stamp.Mtime} {
		ms, ok := spec.Get(f)
		if !ok {
			continue
		}
		t, err := toTimespec(ms)
		if err != nil {
			return unsupported("utimensat", path, err)
		}
		ts[i] = t
	}

	flags := 0
	if mode == stamp.ActOnLinkItself {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, ts[:], flags); err != nil {
		return wrapErr("utimensat", path, err)
	}
	return nil
}

// toTimespec fails with ERANGE where the instant does not fit the native
// time_t, e.g. far dates on 32-bit targets.
func toTimespec(ms int64) (unix.Timespec, error) {
	return unix.TimeToTimespec(millisToTime(ms))
}

// timespecMillis floors a native timespec to milliseconds.
func timespecMillis(ts unix.Timespec) int64 {
	sec, nsec := ts.Unix()
	return sec*1000 + nanosToMillis(nsec)
}
