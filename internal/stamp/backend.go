package stamp

import "fmt"

// LinkMode selects whether a symbolic link is resolved or acted on itself.
// The zero value follows links.
type LinkMode int

const (
	FollowSymlinks LinkMode = iota
	ActOnLinkItself
)

func (m LinkMode) String() string {
	switch m {
	case FollowSymlinks:
		return "follow"
	case ActOnLinkItself:
		return "nofollow"
	default:
		return fmt.Sprintf("LinkMode(%d)", int(m))
	}
}

// ParseLinkMode is the inverse of LinkMode.String.
func ParseLinkMode(s string) (LinkMode, error) {
	switch s {
	case "follow", "":
		return FollowSymlinks, nil
	case "nofollow":
		return ActOnLinkItself, nil
	default:
		return 0, fmt.Errorf("unknown link mode %q", s)
	}
}

// Support describes which fields a platform can write. It is fixed at build
// time and never changes while the process runs.
type Support struct {
	Atime bool
	Mtime bool
	Btime bool
	// SeparateBtimeCall is set where btime needs its own native call after
	// atime/mtime were written.
	SeparateBtimeCall bool
	// LinkItself is set where timestamps of a symlink can be changed without
	// touching its target.
	LinkItself bool
}

// Supports reports whether f is writable.
func (s Support) Supports(f Field) bool {
	switch f {
	case Atime:
		return s.Atime
	case Mtime:
		return s.Mtime
	case Btime:
		return s.Btime
	default:
		return false
	}
}

// Effective drops fields the platform cannot write. Those fields are a
// documented no-op, never an error.
func (s Support) Effective(spec Spec) Spec {
	for _, f := range AllFields {
		if !s.Supports(f) {
			spec = spec.Without(f)
		}
	}
	return spec
}

// Backend applies a Spec to one path using the host's native calls.
//
// Apply either writes every requested and supported field or returns an
// *Error; it never applies a subset silently. Any OS handle it opens is
// released before it returns.
type Backend interface {
	Apply(path string, mode LinkMode, spec Spec) error
	Support() Support
}

// Inspector reads back the timestamps currently stored on a path. Fields the
// platform does not expose are absent.
type Inspector interface {
	Stat(path string, mode LinkMode) (Spec, error)
}
