// Package query defines the QueryAST: a small, closed set of boolean-query
// node kinds (literal, meta-literal, AND, OR, NOT, any) evaluated against
// one entity's directly-attached tag set.
//
// Nodes are a tagged sum type, the same shape golang.org/x/tools/go/ssa
// uses for its Value and Instruction hierarchies: a common interface with a
// Kind() discriminator, and every algorithm that needs to distinguish
// variants does so with a type switch rather than virtual dispatch through
// subclasses.
package query

import "github.com/dymk/tagengine/internal/ids"

// MetaID mirrors condensation.MetaID without importing the condensation
// package, so that query stays a leaf dependency with no knowledge of how
// the condensation is built or maintained — only what a meta-node literal
// means when matched against a [Snapshot].
type MetaID int

// Kind discriminates the variants of [Node].
type Kind int

const (
	KindLiteral Kind = iota
	KindMetaLiteral
	KindNot
	KindAnd
	KindOr
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindMetaLiteral:
		return "meta-literal"
	case KindNot:
		return "not"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// infiniteCount is the sentinel entity_count used for Any, large enough
// that OR-optimization always treats it as the high-yield operand.
const infiniteCount = int64(1) << 62

// Node is any QueryAST node. Every variant supports three operations:
// Matches, EntityCount, and Clone.
type Node interface {
	Kind() Kind
	// Matches reports whether s, an entity's direct-tag snapshot, satisfies
	// this node.
	Matches(s *Snapshot) bool
	// EntityCount is an advisory selectivity estimate used only by the
	// optimizer in internal/compiler; it is never used to decide
	// correctness.
	EntityCount() int64
	// Clone returns a deep copy of the subtree rooted at this node.
	Clone() Node
}

// Snapshot is the view a Node is matched against: the set of tags directly
// attached to one entity, and the meta-node each of those tags currently
// belongs to. It is the query-time analogue of
// golang.org/x/tools/gopls/internal/cache.Snapshot — a cheap, short-lived
// view computed once per query subject rather than a mutable structure.
type Snapshot struct {
	tags  map[ids.ID]struct{}
	metas map[MetaID]struct{}
}

// NewSnapshot builds a Snapshot from an entity's direct tag set and the
// resolver function that maps a tag to its current meta-node (the second
// return value reports whether the tag participates in any implication).
func NewSnapshot(tags []ids.ID, metaOf func(ids.ID) (MetaID, bool)) *Snapshot {
	s := &Snapshot{
		tags:  make(map[ids.ID]struct{}, len(tags)),
		metas: make(map[MetaID]struct{}),
	}
	for _, t := range tags {
		s.tags[t] = struct{}{}
		if m, ok := metaOf(t); ok {
			s.metas[m] = struct{}{}
		}
	}
	return s
}

// HasTag reports whether t is directly attached.
func (s *Snapshot) HasTag(t ids.ID) bool {
	_, ok := s.tags[t]
	return ok
}

// HasMeta reports whether any directly-attached tag belongs to meta-node m.
func (s *Snapshot) HasMeta(m MetaID) bool {
	_, ok := s.metas[m]
	return ok
}

// Literal matches an entity bearing tag directly. Literal is only ever
// produced by the compiler for tags that have no meta-node; tags that do
// participate in an implication are instead expanded into a disjunction of
// [MetaLiteral]s.
type Literal struct {
	Tag   ids.ID
	Count int64 // t.entity_count at construction time
}

func NewLiteral(tag ids.ID, entityCount int64) *Literal {
	return &Literal{Tag: tag, Count: entityCount}
}

func (l *Literal) Kind() Kind              { return KindLiteral }
func (l *Literal) Matches(s *Snapshot) bool { return s.HasTag(l.Tag) }
func (l *Literal) EntityCount() int64      { return l.Count }
func (l *Literal) Clone() Node             { c := *l; return &c }

// MetaLiteral matches an entity with any directly-attached tag in the
// given meta-node. The compiler emits one for every meta-node whose tags
// imply the literal's original tag, directly, transitively, or by sharing
// its SCC.
type MetaLiteral struct {
	Meta  MetaID
	Count int64 // sum of entity_count over the meta-node's tags
}

func NewMetaLiteral(meta MetaID, entityCount int64) *MetaLiteral {
	return &MetaLiteral{Meta: meta, Count: entityCount}
}

func (m *MetaLiteral) Kind() Kind              { return KindMetaLiteral }
func (m *MetaLiteral) Matches(s *Snapshot) bool { return s.HasMeta(m.Meta) }
func (m *MetaLiteral) EntityCount() int64      { return m.Count }
func (m *MetaLiteral) Clone() Node             { c := *m; return &c }

// Not negates its child.
type Not struct {
	Child Node
}

func NewNot(child Node) *Not { return &Not{Child: child} }

func (n *Not) Kind() Kind              { return KindNot }
func (n *Not) Matches(s *Snapshot) bool { return !n.Child.Matches(s) }
func (n *Not) EntityCount() int64      { return n.Child.EntityCount() }
func (n *Not) Clone() Node             { return &Not{Child: n.Child.Clone()} }

// Op is the operator of a [Bin] node.
type Op int

const (
	OpAnd Op = iota
	OpOr
)

func (o Op) String() string {
	if o == OpAnd {
		return "and"
	}
	return "or"
}

// Bin is a binary AND/OR combinator.
type Bin struct {
	Op          Op
	Left, Right Node
}

func NewAnd(l, r Node) *Bin { return &Bin{Op: OpAnd, Left: l, Right: r} }
func NewOr(l, r Node) *Bin  { return &Bin{Op: OpOr, Left: l, Right: r} }

func (b *Bin) Kind() Kind {
	if b.Op == OpAnd {
		return KindAnd
	}
	return KindOr
}

func (b *Bin) Matches(s *Snapshot) bool {
	if b.Op == OpAnd {
		return b.Left.Matches(s) && b.Right.Matches(s)
	}
	return b.Left.Matches(s) || b.Right.Matches(s)
}

func (b *Bin) EntityCount() int64 {
	l, r := b.Left.EntityCount(), b.Right.EntityCount()
	if b.Op == OpAnd {
		if l < r {
			return l
		}
		return r
	}
	if l > r {
		return l
	}
	return r
}

func (b *Bin) Clone() Node {
	return &Bin{Op: b.Op, Left: b.Left.Clone(), Right: b.Right.Clone()}
}

// Any matches every entity, including one with no tags at all.
type Any struct{}

func NewAny() *Any { return &Any{} }

func (a *Any) Kind() Kind              { return KindAny }
func (a *Any) Matches(s *Snapshot) bool { return true }
func (a *Any) EntityCount() int64      { return infiniteCount }
func (a *Any) Clone() Node             { return &Any{} }
