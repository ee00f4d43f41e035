//go:build windows

package platform

import (
	"golang.org/x/sys/windows"

	"utimes-go/internal/stamp"
)

func stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	h, err := openHandle(path, mode, windows.FILE_READ_ATTRIBUTES)
	if err != nil {
		return stamp.Spec{}, wrapErr("CreateFile", path, err)
	}
	defer windows.CloseHandle(h)

	var d windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(h, &d); err != nil {
		return stamp.Spec{}, wrapErr("GetFileInformationByHandle", path, err)
	}
	return stamp.Spec{}.
		With(stamp.Atime, filetimeMillis(d.LastAccessTime)).
		With(stamp.Mtime, filetimeMillis(d.LastWriteTime)).
		With(stamp.Btime, filetimeMillis(d.CreationTime)), nil
}
