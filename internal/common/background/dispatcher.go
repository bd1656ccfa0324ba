// Package background runs best-effort side channels (message delivery,
// webhook notifications) detached from the request that triggered them.
// A task's outcome is logged and counted but never reported to the caller.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"membership-backend/internal/common/metrics"

	"github.com/rs/zerolog/log"
)

// Task is a unit of detached work
type Task func(ctx context.Context) error

// Runner dispatches detached tasks
type Runner interface {
	Go(name string, timeout time.Duration, task Task)
}

// Dispatcher runs each task in its own goroutine with its own deadline,
// independent of any request context.
type Dispatcher struct {
	wg sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Go starts task in the background and returns immediately
func (d *Dispatcher) Go(name string, timeout time.Duration, task Task) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		err := run(ctx, task)
		elapsed := time.Since(start)

		if err != nil {
			outcome := "failed"
			if _, ok := err.(panicError); ok {
				outcome = "panic"
			}
			metrics.BackgroundTasksTotal.WithLabelValues(name, outcome).Inc()
			log.Warn().Err(err).Str("task", name).Dur("elapsed", elapsed).Msg("background task failed")
			return
		}

		metrics.BackgroundTasksTotal.WithLabelValues(name, "ok").Inc()
		log.Debug().Str("task", name).Dur("elapsed", elapsed).Msg("background task completed")
	}()
}

// Wait blocks until every dispatched task has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits for in-flight tasks until ctx is done
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return task(ctx)
}
