//go:build !linux && !darwin && !windows

package platform

import (
	"os"

	"utimes-go/internal/stamp"
)

// stat reports only the modification time; the portable os.FileInfo does
// not carry the others.
func stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	var fi os.FileInfo
	var err error
	if mode == stamp.ActOnLinkItself {
		fi, err = os.Lstat(path)
	} else {
		fi, err = os.Stat(path)
	}
	if err != nil {
		return stamp.Spec{}, wrapErr("stat", path, err)
	}
	return stamp.Spec{}.With(stamp.Mtime, fi.ModTime().UnixMilli()), nil
}
