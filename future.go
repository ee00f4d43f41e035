package utimes

import "context"

// Future is the deferred result of Client.Go.
type Future struct {
	done   chan struct{}
	result BatchResult
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(result BatchResult, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// Done is closed once the batch finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the batch finished or ctx ends. Giving up on ctx does not
// stop the batch; work already committed to disk stays.
func (f *Future) Wait(ctx context.Context) (BatchResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return BatchResult{}, ctx.Err()
	}
}

// Result blocks until the batch finished.
func (f *Future) Result() (BatchResult, error) {
	<-f.done
	return f.result, f.err
}
