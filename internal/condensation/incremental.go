package condensation

import "github.com/dymk/tagengine/internal/ids"

// Link incrementally folds a newly added implication edge a ⇒ b into the
// condensation. It returns true if the
// edge closed a cycle and triggered a collapse (useful for callers that
// want to log the event), and false for every other case in the table.
//
// Link assumes the caller (internal/engine) has already verified that the
// raw a ⇒ b edge is new; Link itself performs no such check; it simply
// applies the structural consequence.
func (g *Graph) Link(a, b ids.ID) (collapsed bool) {
	ma, aok := g.tagMeta[a]
	mb, bok := g.tagMeta[b]

	switch {
	case !aok && !bok:
		ma = g.ensureSingleton(a)
		mb = g.ensureSingleton(b)
		g.addChildEdge(ma, mb)

	case !aok:
		ma = g.ensureSingleton(a)
		g.addChildEdge(ma, mb)

	case !bok:
		mb = g.ensureSingleton(b)
		g.addChildEdge(ma, mb)

	case ma == mb:
		// Internal SCC edge; no structural change to the condensation.

	case !g.HasPath(mb, ma):
		// No cycle: a plain new condensation edge.
		g.addChildEdge(ma, mb)

	default:
		// mb ⇝ ma already holds, so adding ma -> mb closes a cycle.
		// Collapse every meta-node on a path from mb to ma.
		frontier := g.collapseFrontier(mb, ma)
		g.Collapse(frontier)
		collapsed = true
	}
	return collapsed
}

// collapseFrontier returns every meta-node on some path from `from` to
// `to` (inclusive of both endpoints), via a single DFS from `from` that
// keeps only nodes with a path onward to `to`. This replaces the source
// NIF's unmemoized "path_between" helper with one linear scan.
func (g *Graph) collapseFrontier(from, to MetaID) map[MetaID]struct{} {
	// reachableToTarget[x] == true iff x can reach `to`.
	reachableToTarget := make(map[MetaID]bool)
	var canReach func(x MetaID) bool
	visiting := make(map[MetaID]bool)
	canReach = func(x MetaID) bool {
		if x == to {
			return true
		}
		if v, ok := reachableToTarget[x]; ok {
			return v
		}
		if visiting[x] {
			return false // cycle within the DFS itself; avoid infinite recursion
		}
		visiting[x] = true
		defer delete(visiting, x)
		n := g.nodes[x]
		ok := false
		if n != nil {
			for c := range n.Children {
				if canReach(c) {
					ok = true
					break
				}
			}
		}
		reachableToTarget[x] = ok
		return ok
	}

	frontier := make(map[MetaID]struct{})
	seen := map[MetaID]struct{}{}
	stack := []MetaID{from}
	seen[from] = struct{}{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if canReach(cur) {
			frontier[cur] = struct{}{}
		}
		n := g.nodes[cur]
		if n == nil {
			continue
		}
		for c := range n.Children {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				stack = append(stack, c)
			}
		}
	}
	frontier[to] = struct{}{}
	return frontier
}

// Collapse merges every meta-node in members into a single fresh
// meta-node: inbound edges from outside members are rewired to it,
// outbound edges to outside members are rewired from it, and the old
// meta-nodes are discarded. It returns the id of the new meta-node.
func (g *Graph) Collapse(members map[MetaID]struct{}) MetaID {
	merged := g.next
	g.next++
	n := newMetaNode(merged)
	g.nodes[merged] = n

	for m := range members {
		old := g.nodes[m]
		if old == nil {
			continue
		}
		for t := range old.Tags {
			n.Tags[t] = struct{}{}
			g.tagMeta[t] = merged
		}
		for c := range old.Children {
			if _, inside := members[c]; !inside {
				n.Children[c] = struct{}{}
			}
		}
		for p := range old.Parents {
			if _, inside := members[p]; !inside {
				n.Parents[p] = struct{}{}
			}
		}
		delete(g.nodes, m)
		delete(g.sinks, m)
	}

	// Rewire the outside world to point at merged instead of the old nodes.
	for c := range n.Children {
		if cn := g.nodes[c]; cn != nil {
			for m := range members {
				delete(cn.Parents, m)
			}
			cn.Parents[merged] = struct{}{}
		}
	}
	for p := range n.Parents {
		if pn := g.nodes[p]; pn != nil {
			for m := range members {
				delete(pn.Children, m)
			}
			pn.Children[merged] = struct{}{}
		}
	}

	g.ensureSink(merged)
	return merged
}

// Unlink applies the structural half of an edge removal once the caller
// (internal/engine, which alone knows the raw per-tag implication
// adjacency) has determined that the a ⇒ b edge removal leaves no other
// tag-level edge from inside ma into inside mb. It removes the condensation
// edge ma -> mb and then, for each of ma and mb, either destroys it (if it
// has shrunk to a single tag with no remaining edges) or restores its sink
// membership.
func (g *Graph) Unlink(ma, mb MetaID) {
	g.removeChildEdge(ma, mb)
	g.shrinkOrSink(ma)
	g.shrinkOrSink(mb)
}

func (g *Graph) shrinkOrSink(m MetaID) {
	n := g.nodes[m]
	if n == nil {
		return
	}
	if len(n.Tags) == 1 && len(n.Parents) == 0 && len(n.Children) == 0 {
		g.destroyNode(m)
		return
	}
	if len(n.Children) == 0 {
		g.sinks[m] = struct{}{}
	}
}
