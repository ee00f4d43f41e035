//go:build darwin

package platform

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

var support = stamp.Support{
	Atime:             true,
	Mtime:             true,
	Btime:             true,
	SeparateBtimeCall: true,
	LinkItself:        true,
}

// UTIME_OMIT from <sys/stat.h>.
const utimeOmit = -2

func apply(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	if spec.Has(stamp.Atime) || spec.Has(stamp.Mtime) {
		if err := utimensat(path, mode, spec); err != nil {
			return err
		}
	}
	// Birth time only goes through setattrlist, and only after the
	// atime/mtime write succeeded.
	if ms, ok := spec.Get(stamp.Btime); ok {
		return setCrtime(path, mode, ms)
	}
	return nil
}

func setCrtime(path string, mode stamp.LinkMode, ms int64) error {
	ts, err := toTimespec(ms)
	if err != nil {
		return unsupported("setattrlist", path, err)
	}

	list := unix.Attrlist{
		Bitmapcount: unix.ATTR_BIT_MAP_COUNT,
		Commonattr:  unix.ATTR_CMN_CRTIME,
	}
	opts := 0
	if mode == stamp.ActOnLinkItself {
		opts = unix.FSOPT_NOFOLLOW
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&ts)), unsafe.Sizeof(ts))
	if err := unix.Setattrlist(path, &list, buf, opts); err != nil {
		return wrapErr("setattrlist", path, err)
	}
	return nil
}
