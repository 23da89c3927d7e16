package errgroup

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

type token struct{}

// Group runs tasks with an optional concurrency limit. The first failing
// task cancels the group's context with its error as the cause.
type Group struct {
	cancel func(error)
	ctx    context.Context

	success uint64

	wg  sync.WaitGroup
	sem chan token
}

func NewGroupWithContext(ctx context.Context, limit int) (*Group, context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)
	return (&Group{cancel: cancel, ctx: ctx}).SetLimit(limit), ctx
}

func (g *Group) done(err error) {
	if g.sem != nil {
		<-g.sem
	}
	if err == nil {
		atomic.AddUint64(&g.success, 1)
	}
	g.wg.Done()
}

// Wait blocks until every started task returns and reports the cause of
// cancellation, if any.
func (g *Group) Wait() error {
	g.wg.Wait()
	return context.Cause(g.ctx)
}

func (g *Group) Go(do func(ctx context.Context) error) {
	g.GoWithLifecycle(Lifecycle{Do: do})
}

type Lifecycle struct {
	// Before runs first; Do is skipped when it fails.
	Before func(ctx context.Context) (err error)
	Do     func(ctx context.Context) (err error)
	// After always runs once with the task's final error.
	After func(err error)
}

// GoWithLifecycle waits for a free slot. Once the group is cancelled new
// tasks are dropped without running.
func (g *Group) GoWithLifecycle(lifecycle Lifecycle) {
	if g.ctx.Err() != nil {
		return
	}
	if g.sem != nil {
		select {
		case <-g.ctx.Done():
			return
		case g.sem <- token{}:
		}
	}

	g.wg.Add(1)
	go func() {
		var err error
		defer func() { g.done(err) }()
		if lifecycle.Before != nil {
			err = lifecycle.Before(g.ctx)
		}
		if err == nil {
			err = lifecycle.Do(g.ctx)
		}
		if lifecycle.After != nil {
			lifecycle.After(err)
		}
		if err != nil {
			select {
			case <-g.ctx.Done():
				return
			default:
				g.cancel(err)
			}
		}
	}()
}

func (g *Group) TryGo(f func(ctx context.Context) error) bool {
	if g.sem != nil {
		select {
		case g.sem <- token{}:
		default:
			return false
		}
	}

	g.wg.Add(1)
	go func() {
		var err error
		defer func() { g.done(err) }()
		if err = f(g.ctx); err != nil {
			g.cancel(err)
		}
	}()
	return true
}

func (g *Group) SetLimit(n int) *Group {
	if len(g.sem) != 0 {
		panic(fmt.Errorf("errgroup: modify limit while %v goroutines in the group are still active", len(g.sem)))
	}
	if n > 0 {
		g.sem = make(chan token, n)
	} else {
		g.sem = nil
	}
	return g
}

// Success counts tasks that returned nil.
func (g *Group) Success() uint64 {
	return atomic.LoadUint64(&g.success)
}

func (g *Group) Err() error {
	return context.Cause(g.ctx)
}
