// Package workpool runs tasks on a fixed number of goroutines and joins
// them with a WaitGroup.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidSize = errors.New("pool size must be at least 1")
	ErrClosed      = errors.New("pool is closed")
)

// Task is a unit of work. A non-nil error is collected by the pool.
type Task func() error

type Pool struct {
	size      int
	tasks     chan Task
	mutex     sync.Mutex
	wg        sync.WaitGroup
	errs      []error
	closed    bool
	submitted int
}

// New starts a pool with exactly size workers.
func New(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	p := &Pool{
		size:  size,
		tasks: make(chan Task),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.sendError(p.run(task))
	}
}

// run executes the task, turning a panic into an error so one bad task
// cannot take the worker down.
func (p *Pool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task()
}

func (p *Pool) sendError(err error) {
	if err == nil {
		return
	}
	p.mutex.Lock()
	p.errs = append(p.errs, err)
	p.mutex.Unlock()
}

// Submit hands the task to the next free worker, blocking until one is
// available. It returns ctx.Err() if ctx is done first, in which case the
// task is not run.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return ErrClosed
	}
	p.submitted++
	p.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		p.unsubmit()
		return err
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		p.unsubmit()
		return ctx.Err()
	}
}

func (p *Pool) unsubmit() {
	p.mutex.Lock()
	p.submitted--
	p.mutex.Unlock()
}

// Submitted returns how many tasks were accepted.
func (p *Pool) Submitted() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.submitted
}

// Wait stops accepting tasks, blocks until every accepted task has
// finished and releases the workers. The errors of all failed tasks are
// returned joined, in the order the tasks failed. Wait must not be called
// concurrently with Submit.
func (p *Pool) Wait() error {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return ErrClosed
	}
	p.closed = true
	p.mutex.Unlock()

	close(p.tasks)
	p.wg.Wait()

	p.mutex.Lock()
	defer p.mutex.Unlock()
	return errors.Join(p.errs...)
}
