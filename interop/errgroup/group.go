// Package errgroup provides an adapter that mimics golang.org/x/sync/errgroup
// semantics on top of a treectx cancellation tree. It enables incremental
// migration without pulling errgroup into the core library.
package errgroup

import (
	"context"
	"sync"

	"github.com/NetPo4ki/go-treectx/treectx"
)

// Group is an errgroup-like wrapper over a child treectx.Context with
// fail-fast semantics: the first error cancels the group's subtree, and a
// cancellation of the parent (or any ancestor) reaches every function.
type Group struct {
	ctx *treectx.Context
	sem chan struct{}

	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

// WithParent creates a Group running under a fresh child of parent.
func WithParent(parent *treectx.Context) *Group {
	return &Group{ctx: parent.Child()}
}

// SetLimit bounds the number of functions running at once. It must be
// called before the first Go; n <= 0 removes the limit.
func (g *Group) SetLimit(n int) {
	if n <= 0 {
		g.sem = nil
		return
	}
	g.sem = make(chan struct{}, n)
}

// Go starts f. It should return a non-nil error to signal failure; the
// first failure cancels the group's context.
func (g *Group) Go(f func(ctx context.Context) error) {
	if f == nil {
		return
	}
	g.wg.Add(1)
	h := treectx.Spawn(g.ctx, func(ctx context.Context) error {
		if g.sem != nil {
			select {
			case g.sem <- struct{}{}:
				defer func() { <-g.sem }()
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return f(ctx)
	})
	go func() {
		defer g.wg.Done()
		res, completed := h.Join()
		if err := h.Err(); err != nil {
			g.fail(err)
			return
		}
		if !completed {
			// The function was abandoned by cancellation; report it the
			// way errgroup callers expect.
			g.fail(context.Canceled)
			return
		}
		if res != nil {
			g.fail(res)
		}
	}()
}

// Wait blocks until every function has returned or been abandoned, then
// cancels the group's context and reports the first non-nil error. A
// function abandoned by cancellation counts as context.Canceled.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.ctx.Cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *Group) fail(err error) {
	g.mu.Lock()
	first := g.err == nil
	if first {
		g.err = err
	}
	g.mu.Unlock()
	if first {
		g.ctx.Cancel()
	}
}
