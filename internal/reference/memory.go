package reference

import (
	"context"
	"errors"
	"sync"

	"utimes-go/internal/stamp"
)

// MemoryResolver serves references from a map. Safe for concurrent use.
type MemoryResolver struct {
	mu   sync.RWMutex
	refs map[string]stamp.Spec
}

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{refs: make(map[string]stamp.Spec)}
}

// Put stores the timestamps served for ref.
func (m *MemoryResolver) Put(ref string, spec stamp.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[ref] = spec
}

func (m *MemoryResolver) Resolve(_ context.Context, ref string) (stamp.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.refs[ref]
	if !ok {
		return stamp.Spec{}, &stamp.Error{Kind: stamp.KindPathNotFound, Op: "reference", Path: ref, Err: errors.New("unknown reference")}
	}
	return spec, nil
}

var _ Resolver = (*MemoryResolver)(nil)
