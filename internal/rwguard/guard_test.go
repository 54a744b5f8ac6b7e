package rwguard

import (
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/dymk/tagengine/internal/engine"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

func TestReadReconcilesDirtyBeforeQuerying(t *testing.T) {
	ctx := engine.NewContext()
	a, b, c := ctx.NewTag(), ctx.NewTag(), ctx.NewTag()
	if _, err := ctx.Imply(a, b); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Imply(b, c); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Imply(c, a); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Unimply(c, a); err != nil {
		t.Fatal(err)
	}
	if !ctx.IsDirty() {
		t.Fatalf("expected context dirty after unimplying an intra-SCC edge")
	}

	g := New(ctx)
	var ranVisitor bool
	err := g.Query(query.NewAny(), func(ids.ID) error { ranVisitor = true; return nil })
	if err != nil {
		t.Fatalf("Query should reconcile dirty state and succeed: %v", err)
	}
	_ = ranVisitor // no entities exist; the assertion of interest is err == nil
	if ctx.IsDirty() {
		t.Fatalf("context should be clean after a reconciling Read")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	ctx := engine.NewContext()
	g := New(ctx)

	var eg errgroup.Group
	tagCh := make(chan ids.ID, 32)

	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			return g.Write(func(c *engine.Context) error {
				t := c.NewTag()
				tagCh <- t
				return nil
			})
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("concurrent writes: %v", err)
	}
	close(tagCh)

	var readers errgroup.Group
	for i := 0; i < 8; i++ {
		readers.Go(func() error {
			return g.Read(func(c *engine.Context) error {
				_ = c.NumTags()
				return nil
			})
		})
	}
	if err := readers.Wait(); err != nil {
		t.Fatalf("concurrent reads: %v", err)
	}

	if got := ctx.NumTags(); got != 8 {
		t.Fatalf("NumTags() = %d, want 8", got)
	}
}
