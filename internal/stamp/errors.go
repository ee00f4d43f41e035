package stamp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a timestamp operation failed.
type ErrorKind int

const (
	// KindInvalidSpecification: a supplied value is not a finite,
	// representable instant. Detected before any filesystem access.
	KindInvalidSpecification ErrorKind = iota + 1
	// KindPathNotFound: the path, or in follow mode its final target, does
	// not exist.
	KindPathNotFound
	// KindPermissionDenied: the process may not change the path's metadata.
	KindPermissionDenied
	// KindUnsupportedOperation: the platform explicitly cannot honour the
	// request (for example acting on a link itself where no such call exists).
	KindUnsupportedOperation
	// KindIOFailure: any other native failure.
	KindIOFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidSpecification:
		return "InvalidSpecification"
	case KindPathNotFound:
		return "PathNotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindUnsupportedOperation:
		return "UnsupportedOperation"
	case KindIOFailure:
		return "IOFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseErrorKind is the inverse of ErrorKind.String.
func ParseErrorKind(s string) (ErrorKind, error) {
	for k := KindInvalidSpecification; k <= KindIOFailure; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown error kind %q", s)
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidSpecification = &Error{Kind: KindInvalidSpecification}
	ErrPathNotFound         = &Error{Kind: KindPathNotFound}
	ErrPermissionDenied     = &Error{Kind: KindPermissionDenied}
	ErrUnsupportedOperation = &Error{Kind: KindUnsupportedOperation}
	ErrIOFailure            = &Error{Kind: KindIOFailure}
)

// Error is the failure reported for one path, or for a whole call when the
// input could not be normalized.
type Error struct {
	Kind ErrorKind
	// Op names the native call or stage that failed, e.g. "utimensat".
	Op   string
	Path string
	// Code is the OS error number, zero when the failure did not come from
	// the OS.
	Code uintptr
	Err  error
}

func (e *Error) Error() string {
	var b []byte
	b = append(b, e.Kind.String()...)
	if e.Op != "" {
		b = append(b, ": "...)
		b = append(b, e.Op...)
	}
	if e.Path != "" {
		b = append(b, ' ')
		b = append(b, e.Path...)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	if e.Code != 0 {
		b = fmt.Appendf(b, " (code %d)", e.Code)
	}
	return string(b)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels, so errors.Is(err, ErrPathNotFound) holds for
// any not-found failure regardless of path or code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Code == 0 && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the ErrorKind carried by err, or 0 when err is nil or not
// an *Error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalidSpec(format string, args ...any) *Error {
	return &Error{
		Kind: KindInvalidSpecification,
		Op:   "normalize",
		Err:  fmt.Errorf(format, args...),
	}
}
