package stamp

import (
	"fmt"
	"strings"
	"time"
)

// Field identifies one of the three timestamps a file can carry.
type Field int

const (
	Atime Field = iota
	Mtime
	Btime

	numFields = 3
)

// AllFields lists every field in canonical order.
var AllFields = []Field{Atime, Mtime, Btime}

func (f Field) String() string {
	switch f {
	case Atime:
		return "atime"
	case Mtime:
		return "mtime"
	case Btime:
		return "btime"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField converts "atime", "mtime" or "btime" into a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "atime":
		return Atime, nil
	case "mtime":
		return Mtime, nil
	case "btime":
		return Btime, nil
	default:
		return 0, fmt.Errorf("unknown timestamp field %q", s)
	}
}

func (f Field) valid() bool {
	return f >= 0 && f < numFields
}

// Spec is a partial set of timestamps, each stored as milliseconds since the
// Unix epoch. A field that is not present means "leave unchanged", which is
// distinct from a field present with value 0.
//
// The zero value is an empty Spec. Spec is a value type: With and Without
// return modified copies.
type Spec struct {
	present [numFields]bool
	millis  [numFields]int64
}

// All returns a Spec with atime, mtime and btime all set to ms.
func All(ms int64) Spec {
	var s Spec
	for _, f := range AllFields {
		s = s.With(f, ms)
	}
	return s
}

// Has reports whether f is present.
func (s Spec) Has(f Field) bool {
	return f.valid() && s.present[f]
}

// Get returns the value of f in milliseconds and whether it is present.
func (s Spec) Get(f Field) (int64, bool) {
	if !s.Has(f) {
		return 0, false
	}
	return s.millis[f], true
}

// Time returns the value of f as a UTC time.Time.
func (s Spec) Time(f Field) (time.Time, bool) {
	ms, ok := s.Get(f)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// With returns a copy of s with f set to ms.
func (s Spec) With(f Field, ms int64) Spec {
	if !f.valid() {
		return s
	}
	s.present[f] = true
	s.millis[f] = ms
	return s
}

// Without returns a copy of s with f removed.
func (s Spec) Without(f Field) Spec {
	if !f.valid() {
		return s
	}
	s.present[f] = false
	s.millis[f] = 0
	return s
}

// Only returns a copy of s restricted to the given fields.
func (s Spec) Only(fields ...Field) Spec {
	var out Spec
	for _, f := range fields {
		if ms, ok := s.Get(f); ok {
			out = out.With(f, ms)
		}
	}
	return out
}

// Merge returns s overlaid with every field present in other.
func (s Spec) Merge(other Spec) Spec {
	for _, f := range AllFields {
		if ms, ok := other.Get(f); ok {
			s = s.With(f, ms)
		}
	}
	return s
}

// Fields returns the present fields in canonical order.
func (s Spec) Fields() []Field {
	var out []Field
	for _, f := range AllFields {
		if s.present[f] {
			out = append(out, f)
		}
	}
	return out
}

// Empty reports whether no field is present. Applying an empty Spec is a
// no-op.
func (s Spec) Empty() bool {
	return !s.present[Atime] && !s.present[Mtime] && !s.present[Btime]
}

// Equal reports whether both specs name the same fields with the same values.
func (s Spec) Equal(other Spec) bool {
	return s == other
}

// String renders the spec as "{atime=..., mtime=...}" with RFC 3339 times.
func (s Spec) String() string {
	parts := make([]string, 0, numFields)
	for _, f := range s.Fields() {
		t, _ := s.Time(f)
		parts = append(parts, fmt.Sprintf("%s=%s", f, t.Format(time.RFC3339Nano)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
