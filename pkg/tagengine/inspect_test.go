package tagengine

import "testing"

func TestInspectReportsCollapsedCycle(t *testing.T) {
	c := NewContext()
	a, _ := c.NewTag(nil)
	b, _ := c.NewTag(nil)
	cc, _ := c.NewTag(nil)
	for _, pair := range [][2]ID{{a, b}, {b, cc}, {cc, a}} {
		if _, err := c.ImplyTag(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	report := c.Inspect()
	if report.Dirty {
		t.Fatalf("expected clean condensation after incremental Imply calls")
	}
	if len(report.MetaNodes) != 1 {
		t.Fatalf("expected 1 meta-node after three-cycle collapse, got %d", len(report.MetaNodes))
	}
	mn := report.MetaNodes[0]
	if !mn.Sink || len(mn.Children) != 0 || len(mn.Parents) != 0 {
		t.Fatalf("collapsed node should be an isolated sink, got %+v", mn)
	}
	if len(mn.Tags) != 3 {
		t.Fatalf("expected 3 member tags, got %v", mn.Tags)
	}
}

// TestInspectObservesDirtyWithoutReconciling guards against Inspect (and
// IsDirty) silently forcing a condensation rebuild as a side effect of a
// plain status read.
func TestInspectObservesDirtyWithoutReconciling(t *testing.T) {
	c := NewContext()
	a, _ := c.NewTag(nil)
	b, _ := c.NewTag(nil)
	cc, _ := c.NewTag(nil)
	for _, pair := range [][2]ID{{a, b}, {b, cc}, {cc, a}} {
		if _, err := c.ImplyTag(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.UnimplyTag(cc, a); err != nil {
		t.Fatal(err)
	}

	if !c.IsDirty() {
		t.Fatalf("expected IsDirty() to observe dirty state after unimplying an intra-SCC edge")
	}
	if report := c.Inspect(); !report.Dirty {
		t.Fatalf("expected Inspect() to observe dirty state too")
	}
	if !c.IsDirty() {
		t.Fatalf("IsDirty() should still report dirty after a prior Inspect call — Inspect must not reconcile")
	}
}
