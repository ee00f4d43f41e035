//go:build windows

package platform

import (
	"fmt"
	"math"

	"golang.org/x/sys/windows"

	"utimes-go/internal/stamp"
)

var support = stamp.Support{
	Atime:      true,
	Mtime:      true,
	Btime:      true,
	LinkItself: true,
}

// Milliseconds between 1601-01-01 and 1970-01-01.
const filetimeEpochDeltaMillis = 11644473600000

func apply(path string, mode stamp.LinkMode, spec stamp.Spec) (err error) {
	var ft [3]*windows.Filetime
	for i, f := range []stamp.Field{stamp.Btime, stamp.Atime, stamp.Mtime} {
		ms, ok := spec.Get(f)
		if !ok {
			continue
		}
		t, err := toFiletime(ms)
		if err != nil {
			return unsupported("SetFileTime", path, err)
		}
		ft[i] = &t
	}

	h, err := openHandle(path, mode, windows.FILE_WRITE_ATTRIBUTES)
	if err != nil {
		return wrapErr("CreateFile", path, err)
	}
	defer func() {
		if cerr := windows.CloseHandle(h); cerr != nil && err == nil {
			err = wrapErr("CloseHandle", path, cerr)
		}
	}()

	if err := windows.SetFileTime(h, ft[0], ft[1], ft[2]); err != nil {
		return wrapErr("SetFileTime", path, err)
	}
	return nil
}

// openHandle opens path for attribute access. Directories need backup
// semantics; the reparse point flag keeps a symlink from being resolved.
func openHandle(path string, mode stamp.LinkMode, access uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	flags := uint32(windows.FILE_FLAG_BACKUP_SEMANTICS)
	if mode == stamp.ActOnLinkItself {
		flags |= windows.FILE_FLAG_OPEN_REPARSE_POINT
	}
	return windows.CreateFile(p, access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, flags, 0)
}

// toFiletime converts ms to 100ns intervals since 1601. Instants a FILETIME
// cannot hold are rejected rather than wrapped.
func toFiletime(ms int64) (windows.Filetime, error) {
	if ms < -filetimeEpochDeltaMillis {
		return windows.Filetime{}, fmt.Errorf("%s is before 1601-01-01", stamp.FormatMillis(ms))
	}
	if ms > math.MaxInt64/10000-filetimeEpochDeltaMillis {
		return windows.Filetime{}, fmt.Errorf("%s is beyond the FILETIME range", stamp.FormatMillis(ms))
	}
	ticks := uint64(ms+filetimeEpochDeltaMillis) * 10000
	return windows.Filetime{
		LowDateTime:  uint32(ticks),
		HighDateTime: uint32(ticks >> 32),
	}, nil
}

func filetimeMillis(ft windows.Filetime) int64 {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	return ticks/10000 - filetimeEpochDeltaMillis
}
