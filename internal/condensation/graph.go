// Package condensation maintains the condensation of a tag-implication
// digraph: the DAG obtained by collapsing each strongly connected component
// of tags into a single meta-node. It mirrors the immutable-graph style of
// golang.org/x/tools/gopls/internal/cache/metadata.Graph (an indexed,
// pointer-free graph of IDs with derived adjacency) but, unlike that graph,
// supports incremental edge-level mutation in place: most single-edge changes
// update the condensation cheaply, and only an edge change that can't be
// reconciled safely triggers a wholesale rebuild (via [Rebuild]).
//
// A Graph owns no tags or entities; it is purely the meta-node layer keyed
// by tag IDs supplied by the caller ([internal/engine.Context]).
package condensation

import "github.com/dymk/tagengine/internal/ids"

// MetaID identifies one meta-node (strongly connected component) within a
// Graph. IDs are never reused within the lifetime of a Graph.
type MetaID int

// MetaNode is one SCC of tags, plus its edges in the condensation DAG.
type MetaNode struct {
	ID       MetaID
	Tags     map[ids.ID]struct{}
	Children map[MetaID]struct{}
	Parents  map[MetaID]struct{}
}

func newMetaNode(id MetaID) *MetaNode {
	return &MetaNode{
		ID:       id,
		Tags:     make(map[ids.ID]struct{}),
		Children: make(map[MetaID]struct{}),
		Parents:  make(map[MetaID]struct{}),
	}
}

// Graph is the condensation DAG: a set of meta-nodes, the edges between
// them, the sink subset, and the reverse index from tag to containing
// meta-node.
type Graph struct {
	nodes   map[MetaID]*MetaNode
	tagMeta map[ids.ID]MetaID
	sinks   map[MetaID]struct{}
	next    MetaID
}

// NewGraph returns an empty condensation: no tags participate in any
// implication yet.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[MetaID]*MetaNode),
		tagMeta: make(map[ids.ID]MetaID),
		sinks:   make(map[MetaID]struct{}),
	}
}

// NumMetaNodes returns the number of live meta-nodes.
func (g *Graph) NumMetaNodes() int { return len(g.nodes) }

// MetaNodeOf reports the meta-node containing tag, if any.
func (g *Graph) MetaNodeOf(tag ids.ID) (MetaID, bool) {
	m, ok := g.tagMeta[tag]
	return m, ok
}

// Node returns the meta-node with the given id, or nil if it doesn't exist.
func (g *Graph) Node(m MetaID) *MetaNode { return g.nodes[m] }

// TagsOf returns the (unordered) members of meta-node m.
func (g *Graph) TagsOf(m MetaID) []ids.ID {
	n := g.nodes[m]
	if n == nil {
		return nil
	}
	out := make([]ids.ID, 0, len(n.Tags))
	for t := range n.Tags {
		out = append(out, t)
	}
	return out
}

// Children returns the child meta-nodes of m (SCCs that m's tags imply).
func (g *Graph) Children(m MetaID) []MetaID { return idSet(g.nodes[m], true) }

// Parents returns the parent meta-nodes of m (SCCs that imply m's tags).
func (g *Graph) Parents(m MetaID) []MetaID { return idSet(g.nodes[m], false) }

func idSet(n *MetaNode, children bool) []MetaID {
	if n == nil {
		return nil
	}
	src := n.Parents
	if children {
		src = n.Children
	}
	out := make([]MetaID, 0, len(src))
	for id := range src {
		out = append(out, id)
	}
	return out
}

// AllMetaIDs returns every live meta-node id, in no particular order —
// used by diagnostic tooling that needs to enumerate the whole
// condensation rather than walk it from one tag.
func (g *Graph) AllMetaIDs() []MetaID {
	out := make([]MetaID, 0, len(g.nodes))
	for m := range g.nodes {
		out = append(out, m)
	}
	return out
}

// Sinks returns every meta-node with no outgoing edges.
func (g *Graph) Sinks() []MetaID {
	out := make([]MetaID, 0, len(g.sinks))
	for m := range g.sinks {
		out = append(out, m)
	}
	return out
}

// SameComponent reports whether a and b currently belong to the same
// meta-node. Both must already participate in the condensation.
func (g *Graph) SameComponent(a, b ids.ID) bool {
	ma, aok := g.tagMeta[a]
	mb, bok := g.tagMeta[b]
	return aok && bok && ma == mb
}

// HasPath reports whether there is a directed path from -> to in the
// condensation, following child edges. from == to counts as a (trivial)
// path.
func (g *Graph) HasPath(from, to MetaID) bool {
	if from == to {
		return true
	}
	seen := map[MetaID]struct{}{from: {}}
	stack := []MetaID{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.nodes[cur]
		if n == nil {
			continue
		}
		for next := range n.Children {
			if next == to {
				return true
			}
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				stack = append(stack, next)
			}
		}
	}
	return false
}

func (g *Graph) ensureSink(m MetaID) {
	if n := g.nodes[m]; n != nil && len(n.Children) == 0 {
		g.sinks[m] = struct{}{}
	}
}

func (g *Graph) clearSink(m MetaID) { delete(g.sinks, m) }

// ensureSingleton returns the meta-node for tag, creating a fresh singleton
// (with tag as its sole member, initially a sink) if tag has none yet.
func (g *Graph) ensureSingleton(tag ids.ID) MetaID {
	if m, ok := g.tagMeta[tag]; ok {
		return m
	}
	m := g.next
	g.next++
	n := newMetaNode(m)
	n.Tags[tag] = struct{}{}
	g.nodes[m] = n
	g.tagMeta[tag] = m
	g.sinks[m] = struct{}{}
	return m
}

// addChildEdge links parent -> child in the condensation DAG (parent's
// tags imply child's tags). No-op if the edge already exists.
func (g *Graph) addChildEdge(parent, child MetaID) {
	if parent == child {
		return
	}
	pn, cn := g.nodes[parent], g.nodes[child]
	if pn == nil || cn == nil {
		return
	}
	pn.Children[child] = struct{}{}
	cn.Parents[parent] = struct{}{}
	g.clearSink(parent)
}

// removeChildEdge unlinks parent -> child, if present.
func (g *Graph) removeChildEdge(parent, child MetaID) {
	pn, cn := g.nodes[parent], g.nodes[child]
	if pn == nil || cn == nil {
		return
	}
	delete(pn.Children, child)
	delete(cn.Parents, parent)
}

func (g *Graph) destroyNode(m MetaID) {
	n := g.nodes[m]
	if n == nil {
		return
	}
	for t := range n.Tags {
		delete(g.tagMeta, t)
	}
	for c := range n.Children {
		if cn := g.nodes[c]; cn != nil {
			delete(cn.Parents, m)
		}
	}
	for p := range n.Parents {
		if pn := g.nodes[p]; pn != nil {
			delete(pn.Children, m)
		}
	}
	delete(g.nodes, m)
	delete(g.sinks, m)
}

// ReachableParents returns every meta-node reachable from m by walking
// parent edges (SCCs that transitively imply m's tags), including m
// itself. This is exactly the set [internal/compiler] needs to expand a
// literal: any entity bearing a tag in one of these meta-nodes also
// satisfies a literal over any tag in m.
func (g *Graph) ReachableParents(m MetaID) []MetaID {
	if _, ok := g.nodes[m]; !ok {
		return nil
	}
	seen := map[MetaID]struct{}{m: {}}
	stack := []MetaID{m}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.nodes[cur]
		if n == nil {
			continue
		}
		for p := range n.Parents {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				stack = append(stack, p)
			}
		}
	}
	out := make([]MetaID, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	return out
}
