package treectx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of asynchronous work. The context passed to it is
// cancelled when the task loses its race, to cancellation or to a
// deadline; abandonment is cooperative, and side effects performed before
// the task observes it persist. Tasks that ignore the context simply keep
// running unobserved.
type Task[T any] func(ctx context.Context) T

// Handle is the caller's view of a spawned task. The race outcome (Join)
// and a failure of the task itself (Err) are independent channels: a
// cancelled handle has a nil error, and a panicked one reports its error
// regardless of what Join returns. Callers must check both.
type Handle[T any] struct {
	done  chan struct{}
	value T
	won   bool
	err   error
}

// Done returns a channel that is closed once the race has resolved.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Join blocks until the race resolves. It returns (value, true) when the
// task ran to completion first, and (zero value, false) when this
// context's cancellation, an ancestor's, or the deadline won; the three
// causes are deliberately indistinguishable here.
func (h *Handle[T]) Join() (T, bool) {
	<-h.done
	return h.value, h.won
}

// Err blocks until the race resolves and reports whether the task itself
// failed to reach a decision point, i.e. panicked. It is independent of
// Join's outcome and is never set for ordinary cancellation or timeout.
func (h *Handle[T]) Err() error {
	<-h.done
	return h.err
}

// Spawn schedules task under c with no deadline. See SpawnTimeout.
func Spawn[T any](c *Context, task Task[T]) *Handle[T] {
	return SpawnTimeout(c, task, 0)
}

// SpawnTimeout schedules task for execution and races it against c's
// cancellation and, when d > 0, a deadline of d from now. The first branch
// to resolve decides the handle; no branch is preferred when several are
// ready at once. A losing task is not interrupted: its context is
// cancelled and it is no longer awaited.
//
// Spawn and SpawnTimeout are package-level functions because Go methods
// cannot be generic.
func SpawnTimeout[T any](c *Context, task Task[T], d time.Duration) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	sub := c.sig.subscribe()

	taskID := ""
	if c.obs != nil {
		taskID = uuid.NewString()
		c.obs.TaskSpawned(c.id, taskID)
	}
	start := time.Now()

	taskCtx, abandon := context.WithCancel(context.Background())
	res := make(chan T, 1)
	failed := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				failed <- fmt.Errorf("task panicked: %v", r)
			}
		}()
		res <- task(taskCtx)
	}()

	go func() {
		defer close(h.done)
		defer abandon()

		var deadline <-chan time.Time
		if d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			deadline = t.C
		}

		var outcome Outcome
		select {
		case v := <-res:
			h.value, h.won = v, true
			outcome = OutcomeCompleted
		case err := <-failed:
			h.err = err
			outcome = OutcomePanicked
		case <-sub:
			outcome = OutcomeCancelled
		case <-deadline:
			outcome = OutcomeDeadline
		}
		if c.obs != nil {
			c.obs.TaskFinished(c.id, taskID, time.Since(start), outcome)
		}
	}()
	return h
}
