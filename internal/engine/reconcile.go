package engine

import (
	"github.com/dymk/tagengine/internal/compiler"
	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

// MakeClean builds a from-scratch condensation via Tarjan's SCC over every
// tag that carries at least one implication edge, discarding the prior
// meta-node set entirely. It clears the dirty flag.
func (c *Context) MakeClean() {
	adj := make(map[ids.ID][]ids.ID)
	for id, t := range c.tags {
		if len(t.implies) > 0 || len(t.impliedBy) > 0 {
			adj[id] = keys(t.implies)
		}
	}
	c.graph = condensation.Rebuild(adj)
	c.compiler = compiler.New(c.graph, tagCounts{c})
	c.dirty = false
	c.log.Debug("condensation rebuilt from scratch", "meta_nodes", c.graph.NumMetaNodes())
}

// Query fails with ErrDirty if the condensation is stale, otherwise it
// invokes visitor for every entity whose direct tag set satisfies
// clause.Matches. Visitation order is unspecified. Reconciling a dirty
// context before querying is the concurrency wrapper's job
// (internal/rwguard), not Context's — Context itself never rebuilds
// implicitly.
func (c *Context) Query(clause query.Node, visit func(ids.ID) error) error {
	if c.dirty {
		return ErrDirty
	}
	for id, e := range c.entities {
		if clause.Matches(c.buildSnapshot(e)) {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
