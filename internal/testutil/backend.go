package testutil

import (
	"fmt"
	"sync"

	"utimes-go/internal/stamp"
)

// BackendCall records one Apply on a MockBackend.
type BackendCall struct {
	Path string
	Mode stamp.LinkMode
	Spec stamp.Spec
}

type mockEntry struct {
	times  stamp.Spec
	target string // non-empty for symlinks
}

// MockBackend is an in-memory stamp.Backend and stamp.Inspector. Paths are
// plain keys; symlinks resolve one level to their target key.
type MockBackend struct {
	mu       sync.Mutex
	entries  map[string]*mockEntry
	failures map[string]error
	calls    []BackendCall
	support  stamp.Support
}

// NewMockBackend creates a backend that can write every field and act on
// links.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		entries:  make(map[string]*mockEntry),
		failures: make(map[string]error),
		support:  stamp.Support{Atime: true, Mtime: true, Btime: true, LinkItself: true},
	}
}

// SetSupport replaces the reported field support.
func (m *MockBackend) SetSupport(s stamp.Support) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.support = s
}

// AddFile adds a regular file carrying times.
func (m *MockBackend) AddFile(path string, times stamp.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = &mockEntry{times: times}
}

// AddSymlink adds a link at path pointing to target. The link carries its
// own times.
func (m *MockBackend) AddSymlink(path, target string, times stamp.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = &mockEntry{times: times, target: target}
}

// FailWith makes every Apply on path return err.
func (m *MockBackend) FailWith(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = err
}

// Calls returns every Apply call in order.
func (m *MockBackend) Calls() []BackendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BackendCall(nil), m.calls...)
}

// Times returns the stored times of path without resolving links.
func (m *MockBackend) Times(path string) stamp.Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[path]; ok {
		return e.times
	}
	return stamp.Spec{}
}

func (m *MockBackend) Support() stamp.Support {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.support
}

func (m *MockBackend) Apply(path string, mode stamp.LinkMode, spec stamp.Spec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, BackendCall{Path: path, Mode: mode, Spec: spec})

	if err, ok := m.failures[path]; ok {
		return err
	}
	if spec.Empty() {
		return nil
	}
	if mode == stamp.ActOnLinkItself && !m.support.LinkItself {
		return &stamp.Error{Kind: stamp.KindUnsupportedOperation, Op: "apply", Path: path}
	}
	e, err := m.resolve(path, mode)
	if err != nil {
		return err
	}
	e.times = e.times.Merge(m.support.Effective(spec))
	return nil
}

func (m *MockBackend) Stat(path string, mode stamp.LinkMode) (stamp.Spec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.resolve(path, mode)
	if err != nil {
		return stamp.Spec{}, err
	}
	return e.times, nil
}

func (m *MockBackend) resolve(path string, mode stamp.LinkMode) (*mockEntry, error) {
	e, ok := m.entries[path]
	if ok && e.target != "" && mode == stamp.FollowSymlinks {
		e, ok = m.entries[e.target]
	}
	if !ok {
		return nil, &stamp.Error{
			Kind: stamp.KindPathNotFound,
			Op:   "apply",
			Path: path,
			Err:  fmt.Errorf("no such file"),
		}
	}
	return e, nil
}

var (
	_ stamp.Backend   = (*MockBackend)(nil)
	_ stamp.Inspector = (*MockBackend)(nil)
)
