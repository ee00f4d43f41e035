package stamp

import "errors"

// Outcome is the result of applying a Spec to one path.
type Outcome struct {
	Path string
	// Err is nil when every requested field was applied, otherwise an *Error.
	Err error
}

// Applied reports whether the path was updated.
func (o Outcome) Applied() bool { return o.Err == nil }

// Kind returns the failure kind, or 0 when applied.
func (o Outcome) Kind() ErrorKind { return KindOf(o.Err) }

// BatchResult holds one Outcome per input path, in input order.
type BatchResult struct {
	Outcomes []Outcome
}

// Len returns the number of outcomes.
func (r BatchResult) Len() int { return len(r.Outcomes) }

// Err returns the first failure in input order, or nil.
func (r BatchResult) Err() error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Failed returns every failed outcome in input order.
func (r BatchResult) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Joined combines every failure into one error, or nil.
func (r BatchResult) Joined() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, o.Err)
	}
	return errors.Join(errs...)
}
