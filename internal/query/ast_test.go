package query

import (
	"testing"

	"github.com/dymk/tagengine/internal/ids"
)

func snap(tags ...ids.ID) *Snapshot {
	return NewSnapshot(tags, func(ids.ID) (MetaID, bool) { return 0, false })
}

func TestAnyMatchesEmptySet(t *testing.T) {
	if !NewAny().Matches(snap()) {
		t.Fatalf("Any should match the empty tag set")
	}
}

func TestLiteralMatchesOnlyDirectTag(t *testing.T) {
	l := NewLiteral(1, 5)
	if !l.Matches(snap(1, 2)) {
		t.Fatalf("expected literal(1) to match a snapshot containing tag 1")
	}
	if l.Matches(snap(2, 3)) {
		t.Fatalf("literal(1) matched a snapshot without tag 1")
	}
}

func TestMetaLiteralMatchesAnyMemberTag(t *testing.T) {
	metaOf := func(t ids.ID) (MetaID, bool) {
		if t == 10 || t == 11 {
			return MetaID(7), true
		}
		return 0, false
	}
	s := NewSnapshot([]ids.ID{11}, metaOf)
	ml := NewMetaLiteral(7, 3)
	if !ml.Matches(s) {
		t.Fatalf("expected meta-literal(7) to match via tag 11's meta-node")
	}
}

func TestNotNegates(t *testing.T) {
	n := NewNot(NewLiteral(1, 1))
	if n.Matches(snap(1)) {
		t.Fatalf("Not(literal(1)) should not match a snapshot with tag 1")
	}
	if !n.Matches(snap(2)) {
		t.Fatalf("Not(literal(1)) should match a snapshot without tag 1")
	}
}

func TestBinShortCircuitSemantics(t *testing.T) {
	and := NewAnd(NewLiteral(1, 1), NewLiteral(2, 1))
	if and.Matches(snap(1)) {
		t.Fatalf("AND should require both sides")
	}
	if !and.Matches(snap(1, 2)) {
		t.Fatalf("AND should match when both sides hold")
	}

	or := NewOr(NewLiteral(1, 1), NewLiteral(2, 1))
	if !or.Matches(snap(2)) {
		t.Fatalf("OR should match when either side holds")
	}
	if or.Matches(snap(3)) {
		t.Fatalf("OR should not match when neither side holds")
	}
}

func TestEntityCountRules(t *testing.T) {
	small := NewLiteral(1, 5)
	big := NewLiteral(2, 50)

	if got := NewAnd(small, big).EntityCount(); got != 5 {
		t.Fatalf("AND entity_count = %d, want min = 5", got)
	}
	if got := NewOr(small, big).EntityCount(); got != 50 {
		t.Fatalf("OR entity_count = %d, want max = 50", got)
	}
	if got := NewNot(small).EntityCount(); got != 5 {
		t.Fatalf("Not entity_count = %d, want child's = 5", got)
	}
	if NewAny().EntityCount() <= big.EntityCount() {
		t.Fatalf("Any's sentinel entity_count should dominate any real count")
	}
}

func TestCloneIsDeepAndBehaviorPreserving(t *testing.T) {
	var orig Node = NewAnd(NewOr(NewLiteral(1, 1), NewNot(NewLiteral(2, 1))), NewAny())
	clone := orig.Clone()

	for _, s := range []*Snapshot{snap(), snap(1), snap(2), snap(1, 2)} {
		if orig.Matches(s) != clone.Matches(s) {
			t.Fatalf("clone diverged from original on snapshot %v", s)
		}
	}

	// Mutating the clone's subtree must not affect the original.
	bin := clone.(*Bin)
	bin.Left.(*Bin).Left = NewLiteral(99, 1)
	if orig.(*Bin).Left.(*Bin).Left.(*Literal).Tag == 99 {
		t.Fatalf("mutating the clone mutated the original: not a deep copy")
	}
}
