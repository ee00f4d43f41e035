//go:build darwin

package platform

import (
	"golang.org/x/sys/unix"

	"utimes-go/internal/stamp"
)

func stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
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
		With(stamp.Mtime, timespecMillis(st.Mtim)).
		With(stamp.Btime, timespecMillis(st.Btim)), nil
}
