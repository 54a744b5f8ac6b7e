package condensation

import (
	"testing"

	"github.com/dymk/tagengine/internal/ids"
)

func TestLinkCreatesSingletons(t *testing.T) {
	g := NewGraph()
	a, b := ids.ID(1), ids.ID(2)
	if collapsed := g.Link(a, b); collapsed {
		t.Fatalf("Link(a, b) on fresh tags reported a collapse")
	}
	ma, aok := g.MetaNodeOf(a)
	mb, bok := g.MetaNodeOf(b)
	if !aok || !bok {
		t.Fatalf("expected both tags to have a meta-node after Link")
	}
	if ma == mb {
		t.Fatalf("a and b should be in distinct meta-nodes")
	}
	if !g.HasPath(ma, mb) {
		t.Fatalf("expected path ma -> mb")
	}
	if len(g.Sinks()) != 1 {
		t.Fatalf("expected exactly one sink, got %d", len(g.Sinks()))
	}
}

func TestLinkThreeCycleCollapses(t *testing.T) {
	g := NewGraph()
	a, b, c := ids.ID(1), ids.ID(2), ids.ID(3)
	g.Link(a, b)
	g.Link(b, c)
	collapsed := g.Link(c, a)
	if !collapsed {
		t.Fatalf("Link(c, a) should have closed the 3-cycle")
	}
	if g.NumMetaNodes() != 1 {
		t.Fatalf("expected 1 meta-node after 3-cycle collapse, got %d", g.NumMetaNodes())
	}
	ma, _ := g.MetaNodeOf(a)
	mb, _ := g.MetaNodeOf(b)
	mc, _ := g.MetaNodeOf(c)
	if ma != mb || mb != mc {
		t.Fatalf("a, b, c should share one meta-node")
	}
	n := g.Node(ma)
	if len(n.Parents) != 0 || len(n.Children) != 0 {
		t.Fatalf("collapsed node should have no parents/children, got parents=%v children=%v", n.Parents, n.Children)
	}
	if len(g.Sinks()) != 1 {
		t.Fatalf("expected 1 sink, got %d", len(g.Sinks()))
	}
}

func TestLinkDiamondThenBackEdgeCollapses(t *testing.T) {
	g := NewGraph()
	a, b, c, d := ids.ID(1), ids.ID(2), ids.ID(3), ids.ID(4)
	g.Link(a, b)
	g.Link(a, c)
	g.Link(b, d)
	g.Link(c, d)

	if g.NumMetaNodes() != 4 {
		t.Fatalf("expected 4 meta-nodes in diamond, got %d", g.NumMetaNodes())
	}
	md, _ := g.MetaNodeOf(d)
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0] != md {
		t.Fatalf("expected d's meta-node to be the sole sink, got %v (d=%v)", sinks, md)
	}

	if collapsed := g.Link(d, a); !collapsed {
		t.Fatalf("Link(d, a) should close the cycle through the whole diamond")
	}
	if g.NumMetaNodes() != 1 {
		t.Fatalf("expected full collapse to 1 meta-node, got %d", g.NumMetaNodes())
	}
}

func TestUnlinkDestroysEmptiedSingletons(t *testing.T) {
	g := NewGraph()
	a, b := ids.ID(1), ids.ID(2)
	g.Link(a, b)
	ma, _ := g.MetaNodeOf(a)
	mb, _ := g.MetaNodeOf(b)

	g.Unlink(ma, mb)

	if _, ok := g.MetaNodeOf(a); ok {
		t.Fatalf("a should have lost its meta-node after unlink shrank it to a bare singleton")
	}
	if _, ok := g.MetaNodeOf(b); ok {
		t.Fatalf("b should have lost its meta-node after unlink shrank it to a bare singleton")
	}
	if g.NumMetaNodes() != 0 {
		t.Fatalf("expected 0 meta-nodes left, got %d", g.NumMetaNodes())
	}
}

func TestReachableParentsIncludesSelf(t *testing.T) {
	g := NewGraph()
	a, b, c := ids.ID(1), ids.ID(2), ids.ID(3)
	g.Link(a, b)
	g.Link(b, c)

	mc, _ := g.MetaNodeOf(c)
	rp := g.ReachableParents(mc)
	if len(rp) != 3 {
		t.Fatalf("expected 3 meta-nodes reachable from c's parents (incl. self), got %d: %v", len(rp), rp)
	}
}

func TestRebuildChainAfterSCCEdgeRemoval(t *testing.T) {
	// a -> b -> c -> a, then remove c -> a raw edge: rebuild should produce
	// a chain a -> b -> c with c's meta-node as the sole sink.
	adj := map[ids.ID][]ids.ID{
		1: {2}, // a -> b
		2: {3}, // b -> c
	}
	g := Rebuild(adj)
	if g.NumMetaNodes() != 3 {
		t.Fatalf("expected 3 meta-nodes after rebuild, got %d", g.NumMetaNodes())
	}
	ma, _ := g.MetaNodeOf(1)
	mb, _ := g.MetaNodeOf(2)
	mc, _ := g.MetaNodeOf(3)
	if !g.HasPath(ma, mb) || !g.HasPath(mb, mc) {
		t.Fatalf("expected chain a -> b -> c")
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0] != mc {
		t.Fatalf("expected c's meta-node as sole sink, got %v", sinks)
	}
}

func TestRebuildOmitsTagsWithNoEdges(t *testing.T) {
	g := Rebuild(map[ids.ID][]ids.ID{1: {2}})
	if _, ok := g.MetaNodeOf(99); ok {
		t.Fatalf("tag with no edges should have no meta-node")
	}
}
