package daemon

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"dropzone/internal/transfer"

	"golang.org/x/sync/semaphore"
)

var ErrPoolClosed = errors.New("pool is closed")

// Task is one unit of pool work. Abort is called instead of Run when the task
// is dropped before it ever gets a slot.
type Task interface {
	ID() string
	Folder() string
	Run(ctx context.Context) transfer.Outcome
	Abort(err error) transfer.Outcome
}

// Pool runs tasks with bounded concurrency. Submit never blocks: tasks beyond
// capacity wait for a slot, and a task holds its slot for its whole run.
type Pool struct {
	ctx  context.Context
	sem  *semaphore.Weighted
	size int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Capacity returns configured when positive, otherwise one slot per CPU with
// one kept back for the coordinator.
func Capacity(configured int) int {
	if configured > 0 {
		return configured
	}
	return max(1, runtime.NumCPU()-1)
}

func NewPool(ctx context.Context, size int) *Pool {
	size = max(1, size)

	return &Pool{
		ctx:  ctx,
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) Submit(task Task) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	h := newHandle(task.ID(), task.Folder())
	p.wg.Go(func() {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			h.finish(task.Abort(err))
			return
		}
		defer p.sem.Release(1)

		h.markStarted()
		h.finish(task.Run(p.ctx))
	})

	return h, nil
}

// Close stops the pool from accepting new tasks.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
