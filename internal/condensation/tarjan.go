package condensation

import "github.com/dymk/tagengine/internal/ids"

// Rebuild builds a from-scratch condensation by running Tarjan's SCC
// algorithm over the subgraph of tags that carry at least one implication
// edge. adj maps each such tag to its direct implies-set. Every key of adj
// (even one with an empty slice) and every tag that appears in some
// implies-set gets a meta-node; a tag that appears nowhere in adj has a
// null meta-node after rebuild.
//
// The original source recycles one pre-existing meta-node per SCC to
// simplify ownership; this port instead always allocates fresh meta-nodes
// and discards the old graph wholesale, the simpler, equally-correct
// alternative.
func Rebuild(adj map[ids.ID][]ids.ID) *Graph {
	t := &tarjan{
		adj:     adj,
		index:   make(map[ids.ID]int),
		lowlink: make(map[ids.ID]int),
		onStack: make(map[ids.ID]bool),
	}
	for v := range adj {
		if _, visited := t.index[v]; !visited {
			t.strongconnect(v)
		}
	}

	g := NewGraph()
	tagToMeta := make(map[ids.ID]MetaID, len(adj))
	for _, scc := range t.sccs {
		m := g.next
		g.next++
		n := newMetaNode(m)
		for _, tag := range scc {
			n.Tags[tag] = struct{}{}
			tagToMeta[tag] = m
		}
		g.nodes[m] = n
		g.tagMeta = mergeInto(g.tagMeta, n.Tags, m)
	}

	for from, outs := range adj {
		mFrom, ok := tagToMeta[from]
		if !ok {
			continue
		}
		for _, to := range outs {
			mTo, ok := tagToMeta[to]
			if !ok || mTo == mFrom {
				continue
			}
			g.addChildEdge(mFrom, mTo)
		}
	}

	for m, n := range g.nodes {
		if len(n.Children) == 0 {
			g.sinks[m] = struct{}{}
		}
	}
	return g
}

func mergeInto(dst map[ids.ID]MetaID, tags map[ids.ID]struct{}, m MetaID) map[ids.ID]MetaID {
	for t := range tags {
		dst[t] = m
	}
	return dst
}

// tarjan is one run of Tarjan's strongly-connected-components algorithm
// over a map-based adjacency list, in the classic iterative-stack-free
// (recursive) formulation.
type tarjan struct {
	adj     map[ids.ID][]ids.ID
	index   map[ids.ID]int
	lowlink map[ids.ID]int
	onStack map[ids.ID]bool
	stack   []ids.ID
	counter int
	sccs    [][]ids.ID
}

func (t *tarjan) strongconnect(v ids.ID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, visited := t.index[w]; !visited {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []ids.ID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
