// Package compiler turns a tag reference or a tree of boolean combinators
// into an optimized [query.Node]: it expands literals through the
// condensation (build_literal), builds the syntactic AND/OR/NOT
// combinators, and rewrites a combinator tree into one that flattens
// associative operators, deduplicates meta-literal leaves, and reorders
// children by selectivity so short-circuit evaluation does the least work.
package compiler

import (
	"container/heap"

	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

// Condensation is the narrow view of the condensation graph the compiler
// needs. [internal/condensation.Graph] satisfies it directly; tests may
// supply a fake.
type Condensation interface {
	MetaNodeOf(tag ids.ID) (condensation.MetaID, bool)
	TagsOf(m condensation.MetaID) []ids.ID
	ReachableParents(m condensation.MetaID) []condensation.MetaID
}

// TagEntityCounts supplies entity_count for a tag by ID, used both for
// plain Literal fallback and for summing a meta-node's MetaLiteral count.
type TagEntityCounts interface {
	EntityCount(tag ids.ID) int64
}

// Compiler compiles external clause references into [query.Node] trees,
// memoizing literal expansions by generation so that repeated references
// to the same tag within one condensation state don't re-walk the graph.
// The original NIF's query.cc memoizes build_literal the same way,
// invalidating on any condensation change.
type Compiler struct {
	graph      Condensation
	counts     TagEntityCounts
	generation uint64
	memoGen    uint64
	memo       map[ids.ID]query.Node
}

// New returns a Compiler bound to the given condensation and entity-count
// source. Callers must call Invalidate whenever the condensation changes
// (on every make_clean and every incremental structural update).
func New(graph Condensation, counts TagEntityCounts) *Compiler {
	return &Compiler{graph: graph, counts: counts, memo: make(map[ids.ID]query.Node)}
}

// Invalidate clears the literal-expansion memo. Called by
// internal/engine whenever the condensation it's bound to changes shape.
func (c *Compiler) Invalidate() {
	c.generation++
}

func (c *Compiler) checkMemo() {
	if c.memoGen != c.generation {
		c.memo = make(map[ids.ID]query.Node)
		c.memoGen = c.generation
	}
}

// BuildLiteral expands a tag reference into a query node: if tag has a
// meta-node, it returns a left-deep OR of MetaLiteral nodes over every
// meta-node that can reach tag's meta-node (including tag's own), since an
// entity bearing any tag in an implying SCC also satisfies a literal over
// tag. If tag has no meta-node, it returns a plain Literal.
func (c *Compiler) BuildLiteral(tag ids.ID) query.Node {
	c.checkMemo()
	if n, ok := c.memo[tag]; ok {
		return n.Clone()
	}

	m, ok := c.graph.MetaNodeOf(tag)
	if !ok {
		n := query.NewLiteral(tag, c.counts.EntityCount(tag))
		c.memo[tag] = n
		return n.Clone()
	}

	metas := c.graph.ReachableParents(m)
	leaves := make([]query.Node, 0, len(metas))
	for _, mid := range metas {
		leaves = append(leaves, query.NewMetaLiteral(query.MetaID(mid), c.sumEntityCount(mid)))
	}
	built := foldLeftDeepOr(leaves)
	c.memo[tag] = built
	return built.Clone()
}

func (c *Compiler) sumEntityCount(m condensation.MetaID) int64 {
	var total int64
	for _, t := range c.graph.TagsOf(m) {
		total += c.counts.EntityCount(t)
	}
	return total
}

func foldLeftDeepOr(leaves []query.Node) query.Node {
	if len(leaves) == 0 {
		return query.NewAny() // unreachable in practice: every meta-node has >=1 tag
	}
	acc := leaves[0]
	for _, l := range leaves[1:] {
		acc = query.NewOr(acc, l)
	}
	return acc
}

// BuildAnd, BuildOr, and BuildNot are the unoptimized syntactic
// constructors: they perform no rewriting at all.
func BuildAnd(l, r query.Node) query.Node { return query.NewAnd(l, r) }
func BuildOr(l, r query.Node) query.Node  { return query.NewOr(l, r) }
func BuildNot(n query.Node) query.Node    { return query.NewNot(n) }
func BuildAny() query.Node                { return query.NewAny() }

// Optimize rewrites a query tree: for every binary
// node, flatten runs of the same operator, deduplicate MetaLiteral leaves,
// recursively optimize each leaf, and rebuild a left-deep tree with a
// Huffman-style combine-two-cheapest (AND) or combine-two-priciest (OR)
// heap so that short-circuiting does the least work. Non-binary nodes
// (Literal, MetaLiteral, Not, Any) are optimized by recursing into their
// children only; a Not is rebuilt as a new Not around its optimized child.
func Optimize(n query.Node) query.Node {
	switch v := n.(type) {
	case *query.Bin:
		return optimizeBin(v)
	case *query.Not:
		return query.NewNot(Optimize(v.Child))
	default:
		return n
	}
}

func optimizeBin(b *query.Bin) query.Node {
	leaves := flatten(b.Op, b)
	leaves = dedupMetaLiterals(leaves)
	for i, l := range leaves {
		leaves[i] = Optimize(l)
	}
	return huffmanRebuild(b.Op, leaves)
}

// flatten walks n collecting every descendant combined with the same
// operator op into leaves; a descendant with a different operator (or a
// non-Bin node) becomes a leaf verbatim.
func flatten(op query.Op, n query.Node) []query.Node {
	bin, ok := n.(*query.Bin)
	if !ok || bin.Op != op {
		return []query.Node{n}
	}
	var out []query.Node
	out = append(out, flatten(op, bin.Left)...)
	out = append(out, flatten(op, bin.Right)...)
	return out
}

func dedupMetaLiterals(leaves []query.Node) []query.Node {
	seen := make(map[query.MetaID]bool)
	out := make([]query.Node, 0, len(leaves))
	for _, l := range leaves {
		if ml, ok := l.(*query.MetaLiteral); ok {
			if seen[ml.Meta] {
				continue
			}
			seen[ml.Meta] = true
		}
		out = append(out, l)
	}
	return out
}

// huffmanRebuild assembles leaves into a left-deep tree using a priority
// queue: for AND, pop the two cheapest and combine first (so the least
// selective work happens last, after the short-circuit has the best
// chance to fire); for OR, pop the two priciest first (so the evaluation
// most likely to short-circuit true happens first).
func huffmanRebuild(op query.Op, leaves []query.Node) query.Node {
	if len(leaves) == 0 {
		return query.NewAny()
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	pq := &nodeHeap{items: append([]query.Node(nil), leaves...), maxHeap: op == query.OpOr}
	heap.Init(pq)

	for pq.Len() > 1 {
		a := heap.Pop(pq).(query.Node)
		b := heap.Pop(pq).(query.Node)
		var combined query.Node
		if op == query.OpAnd {
			combined = query.NewAnd(a, b)
		} else {
			combined = query.NewOr(a, b)
		}
		heap.Push(pq, combined)
	}
	return heap.Pop(pq).(query.Node)
}

// nodeHeap is a container/heap priority queue over query.Node, ordered by
// EntityCount. maxHeap selects max-heap (OR) vs min-heap (AND) ordering;
// ties fall out of container/heap's internal layout, which is deterministic
// for a given leaf order but is not insertion order; tests must accept
// either order when counts tie.
type nodeHeap struct {
	items   []query.Node
	maxHeap bool
}

func (h nodeHeap) Len() int { return len(h.items) }

func (h nodeHeap) Less(i, j int) bool {
	ci, cj := h.items[i].EntityCount(), h.items[j].EntityCount()
	if h.maxHeap {
		return ci > cj
	}
	return ci < cj
}

func (h nodeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *nodeHeap) Push(x any) { h.items = append(h.items, x.(query.Node)) }

func (h *nodeHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

var _ heap.Interface = (*nodeHeap)(nil)
