package stamp

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxMillis bounds a representable instant: +/- 100,000,000 days around the
// Unix epoch.
const MaxMillis = 8_640_000_000_000_000

// Fields is the partial form of a timestamp request. A nil field is left
// untouched; any other value must be a valid instant.
type Fields struct {
	Atime any
	Mtime any
	Btime any
}

// Normalizer turns caller input into a Spec. It is pure apart from reading
// the clock for the "now" keyword.
type Normalizer struct {
	clock Clock
}

// NewNormalizer returns a Normalizer that resolves "now" with clock.
func NewNormalizer(clock Clock) *Normalizer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Normalizer{clock: clock}
}

// Normalize converts input into a Spec using the real clock.
func Normalize(input any) (Spec, error) {
	return NewNormalizer(RealClock{}).Normalize(input)
}

// Normalize converts input into a Spec.
//
// A bare instant (integer milliseconds, float milliseconds, time.Time or a
// string) expands to all three fields. Fields, map[string]any,
// map[Field]any and Spec keep exactly the fields present.
func (n *Normalizer) Normalize(input any) (Spec, error) {
	// Read the clock at most once so every "now" in one request agrees.
	var now *time.Time
	nowFn := func() time.Time {
		if now == nil {
			t := n.clock.Now()
			now = &t
		}
		return *now
	}

	switch v := input.(type) {
	case nil:
		return Spec{}, invalidSpec("no timestamp given")
	case Spec:
		for _, f := range v.Fields() {
			ms, _ := v.Get(f)
			if err := checkRange(f.String(), ms); err != nil {
				return Spec{}, err
			}
		}
		return v, nil
	case *Spec:
		if v == nil {
			return Spec{}, invalidSpec("no timestamp given")
		}
		return n.Normalize(*v)
	case Fields:
		return n.fromFields(map[Field]any{Atime: v.Atime, Mtime: v.Mtime, Btime: v.Btime}, nowFn)
	case *Fields:
		if v == nil {
			return Spec{}, invalidSpec("no timestamp given")
		}
		return n.Normalize(*v)
	case map[Field]any:
		for f := range v {
			if !f.valid() {
				return Spec{}, invalidSpec("unknown timestamp field %v", f)
			}
		}
		return n.fromFields(v, nowFn)
	case map[string]any:
		m := make(map[Field]any, len(v))
		for k, val := range v {
			f, err := ParseField(k)
			if err != nil {
				return Spec{}, invalidSpec("%v", err)
			}
			m[f] = val
		}
		return n.fromFields(m, nowFn)
	default:
		ms, err := instant("time", input, nowFn)
		if err != nil {
			return Spec{}, err
		}
		return All(ms), nil
	}
}

func (n *Normalizer) fromFields(m map[Field]any, now func() time.Time) (Spec, error) {
	var s Spec
	for _, f := range AllFields {
		v, ok := m[f]
		if !ok || v == nil {
			continue
		}
		ms, err := instant(f.String(), v, now)
		if err != nil {
			return Spec{}, err
		}
		s = s.With(f, ms)
	}
	return s, nil
}

// ParseInstant converts a single instant into milliseconds.
func (n *Normalizer) ParseInstant(v any) (int64, error) {
	return instant("time", v, n.clock.Now)
}

func instant(name string, v any, now func() time.Time) (int64, error) {
	var ms int64
	switch x := v.(type) {
	case int:
		ms = int64(x)
	case int8:
		ms = int64(x)
	case int16:
		ms = int64(x)
	case int32:
		ms = int64(x)
	case int64:
		ms = x
	case uint:
		return fromUnsigned(name, uint64(x))
	case uint8:
		ms = int64(x)
	case uint16:
		ms = int64(x)
	case uint32:
		ms = int64(x)
	case uint64:
		return fromUnsigned(name, x)
	case float32:
		return fromFloat(name, float64(x))
	case float64:
		return fromFloat(name, x)
	case time.Time:
		ms = x.UnixMilli()
	case *time.Time:
		if x == nil {
			return 0, invalidSpec("%s: nil time", name)
		}
		ms = x.UnixMilli()
	case string:
		return fromString(name, x, now)
	default:
		return 0, invalidSpec("%s: unsupported value of type %T", name, v)
	}
	if err := checkRange(name, ms); err != nil {
		return 0, err
	}
	return ms, nil
}

func fromUnsigned(name string, u uint64) (int64, error) {
	if u > MaxMillis {
		return 0, invalidSpec("%s: %d ms is out of range", name, u)
	}
	return int64(u), nil
}

func fromFloat(name string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidSpec("%s: %v is not a finite instant", name, f)
	}
	t := math.Trunc(f)
	if math.Abs(t) > MaxMillis {
		return 0, invalidSpec("%s: %v ms is out of range", name, f)
	}
	return int64(t), nil
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func fromString(name, s string, now func() time.Time) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalidSpec("%s: empty value", name)
	}
	if strings.EqualFold(s, "now") {
		return now().UnixMilli(), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if err := checkRange(name, i); err != nil {
			return 0, err
		}
		return i, nil
	}
	for _, layout := range layouts {
		// Layouts without a zone are read as UTC.
		if t, err := time.Parse(layout, s); err == nil {
			ms := t.UnixMilli()
			if err := checkRange(name, ms); err != nil {
				return 0, err
			}
			return ms, nil
		}
	}
	return 0, invalidSpec("%s: cannot parse %q as an instant", name, s)
}

func checkRange(name string, ms int64) error {
	if ms > MaxMillis || ms < -MaxMillis {
		return invalidSpec("%s: %d ms is out of range", name, ms)
	}
	return nil
}

// FormatMillis renders ms as an RFC 3339 UTC timestamp.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}
