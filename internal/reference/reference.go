// Package reference resolves a reference (a local file or a remote object)
// into the timestamps it carries, so they can be copied onto other paths.
package reference

import (
	"context"
	"fmt"
	"strings"

	"utimes-go/internal/stamp"
)

// Resolver turns a reference into a Spec.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (stamp.Spec, error)
}

// Mux dispatches on the reference's URI scheme. References without a scheme
// go to the fallback resolver.
type Mux struct {
	fallback Resolver
	schemes  map[string]Resolver
}

// NewMux creates a Mux that sends plain paths to fallback.
func NewMux(fallback Resolver) *Mux {
	return &Mux{fallback: fallback, schemes: make(map[string]Resolver)}
}

// Handle registers r for "scheme://" references.
func (m *Mux) Handle(scheme string, r Resolver) {
	m.schemes[strings.ToLower(scheme)] = r
}

func (m *Mux) Resolve(ctx context.Context, ref string) (stamp.Spec, error) {
	scheme, ok := schemeOf(ref)
	if !ok {
		if m.fallback == nil {
			return stamp.Spec{}, unsupported(ref, fmt.Errorf("no resolver for plain paths"))
		}
		return m.fallback.Resolve(ctx, ref)
	}
	r, ok := m.schemes[scheme]
	if !ok {
		return stamp.Spec{}, unsupported(ref, fmt.Errorf("no resolver for scheme %q", scheme))
	}
	return r.Resolve(ctx, ref)
}

func schemeOf(ref string) (string, bool) {
	i := strings.Index(ref, "://")
	if i <= 0 {
		return "", false
	}
	return strings.ToLower(ref[:i]), true
}

func unsupported(ref string, err error) error {
	return &stamp.Error{Kind: stamp.KindUnsupportedOperation, Op: "reference", Path: ref, Err: err}
}

var _ Resolver = (*Mux)(nil)
