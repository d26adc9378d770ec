package worker

import (
	"context"
	"errors"
	"sync"
)

// Worker is a long-running task that stops when its context is cancelled.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker until ctx is cancelled and then waits for them to
// exit. Errors returned by workers are joined.
func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				errs <- &Error{Worker: w.Name(), Err: err}
			}
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	close(errs)
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

// Error ties a worker failure to the worker's name.
type Error struct {
	Worker string
	Err    error
}

func (e *Error) Error() string { return e.Worker + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
