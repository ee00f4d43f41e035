// Package utimes sets the access, modification and (where the operating
// system allows it) birth time of files and symbolic links.
//
// Every operation comes in three forms: blocking (Client.Do), deferred
// (Client.Go returns a *Future) and callback (Client.Then). All of them run
// the same engine: paths are processed one at a time in input order, and a
// failure on one path never stops the others.
//
// A time value is either a bare instant, applied to atime, mtime and btime,
// or a Fields / map naming only the fields to change:
//
//	utimes.Utimes("a.txt", time.Now())
//	utimes.Utimes("a.txt", utimes.Fields{Mtime: int64(1_700_000_000_000)})
//	utimes.Lutimes("link", map[string]any{"atime": "2024-01-02T03:04:05Z"})
package utimes

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"utimes-go/internal/platform"
	"utimes-go/internal/stamp"
)

type (
	Spec        = stamp.Spec
	Fields      = stamp.Fields
	Field       = stamp.Field
	LinkMode    = stamp.LinkMode
	Outcome     = stamp.Outcome
	BatchResult = stamp.BatchResult
	Error       = stamp.Error
	ErrorKind   = stamp.ErrorKind
	Support     = stamp.Support
)

const (
	Atime = stamp.Atime
	Mtime = stamp.Mtime
	Btime = stamp.Btime

	FollowSymlinks  = stamp.FollowSymlinks
	ActOnLinkItself = stamp.ActOnLinkItself
)

var (
	ErrInvalidSpecification = stamp.ErrInvalidSpecification
	ErrPathNotFound         = stamp.ErrPathNotFound
	ErrPermissionDenied     = stamp.ErrPermissionDenied
	ErrUnsupportedOperation = stamp.ErrUnsupportedOperation
	ErrIOFailure            = stamp.ErrIOFailure
)

// DefaultMaxConcurrent bounds how many deferred or callback batches run at
// once on a Client built without WithMaxConcurrent.
const DefaultMaxConcurrent = 4

// Call describes one invocation: the paths, the time value and the link
// mode shared by all of them.
type Call struct {
	Paths []string
	Time  any
	Mode  LinkMode
}

// Option configures a Client.
type Option func(*options)

type options struct {
	backend       stamp.Backend
	clock         stamp.Clock
	logger        stamp.Logger
	maxConcurrent int64
}

// WithBackend replaces the native backend. Mostly useful in tests.
func WithBackend(b stamp.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithClock sets the clock used to resolve "now".
func WithClock(c stamp.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the engine logger.
func WithLogger(l stamp.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxConcurrent bounds the number of background batches running at once.
func WithMaxConcurrent(n int64) Option {
	return func(o *options) { o.maxConcurrent = n }
}

// Client runs timestamp calls. It is safe for concurrent use; independent
// calls share no mutable state.
type Client struct {
	svc *stamp.Service
	sem *semaphore.Weighted
}

// New creates a Client over the native backend of the build target.
func New(opts ...Option) *Client {
	o := options{
		clock:         stamp.RealClock{},
		logger:        stamp.NewNopLogger(),
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = platform.New()
	}
	if o.maxConcurrent < 1 {
		o.maxConcurrent = 1
	}
	return &Client{
		svc: stamp.NewService(o.backend, stamp.NewNormalizer(o.clock), o.logger),
		sem: semaphore.NewWeighted(o.maxConcurrent),
	}
}

// Support reports which fields the backend can write.
func (c *Client) Support() Support {
	return c.svc.Support()
}

// Normalize converts a time value into a Spec with the client's clock.
func (c *Client) Normalize(t any) (Spec, error) {
	return c.svc.Normalizer().Normalize(t)
}

// Do runs call and blocks until every path was processed. An invalid time
// value fails before any path is touched. Otherwise the returned error is
// the first failed outcome in input order, and the full result is always
// returned.
func (c *Client) Do(call Call) (BatchResult, error) {
	result, err := c.svc.ApplyInput(call.Paths, call.Mode, call.Time)
	if err != nil {
		return result, err
	}
	return result, result.Err()
}

// Go runs call on its own goroutine and returns immediately. If ctx ends
// before the batch gets a slot, nothing is touched and the future fails with
// ctx.Err(). A started batch always runs to completion.
func (c *Client) Go(ctx context.Context, call Call) *Future {
	f := newFuture()
	spec, err := c.Normalize(call.Time)
	if err != nil {
		f.resolve(BatchResult{}, err)
		return f
	}
	paths := append([]string(nil), call.Paths...)

	go func() {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			f.resolve(BatchResult{}, err)
			return
		}
		defer c.sem.Release(1)
		result := c.svc.Apply(paths, call.Mode, spec)
		f.resolve(result, result.Err())
	}()
	return f
}

// Then runs call in the background and invokes fn exactly once with the
// result, from the worker goroutine.
func (c *Client) Then(call Call, fn func(BatchResult, error)) {
	f := c.Go(context.Background(), call)
	go func() {
		<-f.Done()
		fn(f.result, f.err)
	}()
}

// Utimes sets timestamps on path, following symlinks.
func (c *Client) Utimes(path string, t any) error {
	_, err := c.Do(Call{Paths: []string{path}, Time: t})
	return err
}

// Lutimes sets timestamps on path itself when it is a symlink.
func (c *Client) Lutimes(path string, t any) error {
	_, err := c.Do(Call{Paths: []string{path}, Time: t, Mode: ActOnLinkItself})
	return err
}

// UtimesAll sets timestamps on every path, following symlinks.
func (c *Client) UtimesAll(paths []string, t any) (BatchResult, error) {
	return c.Do(Call{Paths: paths, Time: t})
}

// LutimesAll sets timestamps on every path without following symlinks.
func (c *Client) LutimesAll(paths []string, t any) (BatchResult, error) {
	return c.Do(Call{Paths: paths, Time: t, Mode: ActOnLinkItself})
}

var defaultClient = sync.OnceValue(func() *Client { return New() })

// Default returns the process wide client used by the package functions.
func Default() *Client {
	return defaultClient()
}

// Utimes sets timestamps on path, following symlinks.
func Utimes(path string, t any) error {
	return Default().Utimes(path, t)
}

// Lutimes sets timestamps on the link itself.
func Lutimes(path string, t any) error {
	return Default().Lutimes(path, t)
}

// UtimesAll sets timestamps on every path, following symlinks.
func UtimesAll(paths []string, t any) (BatchResult, error) {
	return Default().UtimesAll(paths, t)
}

// LutimesAll sets timestamps on every path without following symlinks.
func LutimesAll(paths []string, t any) (BatchResult, error) {
	return Default().LutimesAll(paths, t)
}

// UtimesAsync is the deferred form of UtimesAll.
func UtimesAsync(ctx context.Context, paths []string, t any) *Future {
	return Default().Go(ctx, Call{Paths: paths, Time: t})
}

// LutimesAsync is the deferred form of LutimesAll.
func LutimesAsync(ctx context.Context, paths []string, t any) *Future {
	return Default().Go(ctx, Call{Paths: paths, Time: t, Mode: ActOnLinkItself})
}

// UtimesFunc is the callback form of Utimes. fn receives the path's error.
func UtimesFunc(path string, t any, fn func(error)) {
	Default().Then(Call{Paths: []string{path}, Time: t}, func(_ BatchResult, err error) { fn(err) })
}

// LutimesFunc is the callback form of Lutimes.
func LutimesFunc(path string, t any, fn func(error)) {
	Default().Then(Call{Paths: []string{path}, Time: t, Mode: ActOnLinkItself}, func(_ BatchResult, err error) { fn(err) })
}
