// Package rwguard implements the reader/writer discipline over one
// [engine.Context]: plain status reads (dirty check, counts, edge
// listing) run concurrently with each other and never force a rebuild;
// queries additionally escalate to reconcile a dirty condensation first,
// since a query's correctness depends on the condensation being current;
// and writers (mutations, make_clean) run exclusively.
//
// The underlying lock is the stdlib [sync.RWMutex], not a hand-rolled
// counter: its documented contract — "a blocked Lock call excludes new
// readers from acquiring the lock" — already gives the writer-preferring
// behavior this package needs (new readers arriving while a writer is
// waiting queue behind it), so there is nothing a third-party or custom
// primitive would add here. golang.org/x/tools' own gopls/internal/cache
// guards its session/snapshot state with plain sync.Mutex where
// shared-read concurrency isn't needed; RWMutex is the same family of
// primitive, reached for here because the query path specifically wants
// read/read concurrency.
package rwguard

import (
	"sync"

	"github.com/dymk/tagengine/internal/engine"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

// Guard serializes access to one engine.Context.
type Guard struct {
	mu  sync.RWMutex
	ctx *engine.Context
}

// New wraps ctx in a reader/writer guard. ctx must not be accessed directly
// by any other goroutine thereafter.
func New(ctx *engine.Context) *Guard {
	return &Guard{ctx: ctx}
}

// Peek runs fn with a shared read guard on the context as-is, without
// reconciling a dirty condensation first. Use this for status reads whose
// answer shouldn't have the side effect of forcing a full rebuild —
// is_dirty, size counts, direct-edge listings. Multiple Peek/Read calls
// may run concurrently; none run concurrently with a Write.
func (g *Guard) Peek(fn func(*engine.Context) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.ctx)
}

// Read runs fn with a shared read guard on the context, reconciling a
// dirty condensation first if needed. Use this for reads whose result
// depends on the condensation being current (queries, implied-tag
// listings). Multiple Read calls may run concurrently; none run
// concurrently with a Write.
func (g *Guard) Read(fn func(*engine.Context) error) error {
	for {
		g.mu.RLock()
		dirty := g.ctx.IsDirty()
		if !dirty {
			err := fn(g.ctx)
			g.mu.RUnlock()
			return err
		}
		g.mu.RUnlock()

		g.reconcile()
		// Loop: re-acquire a read guard and check again. Another writer may
		// have re-dirtied the condensation between our reconcile and the next
		// RLock, in which case we reconcile again.
	}
}

// reconcile escalates to an exclusive write guard and calls make_clean,
// unless another writer already cleaned the condensation first.
func (g *Guard) reconcile() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctx.IsDirty() {
		g.ctx.MakeClean()
	}
}

// Write runs fn with the exclusive write guard held: no reader or other
// writer runs concurrently.
func (g *Guard) Write(fn func(*engine.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.ctx)
}

// Query reconciles a dirty condensation if needed, then runs clause
// against every entity.
func (g *Guard) Query(clause query.Node, visit func(ids.ID) error) error {
	return g.Read(func(c *engine.Context) error {
		return c.Query(clause, visit)
	})
}
